package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"github.com/onnwee/graphlayout/internal/apierr"
	"github.com/onnwee/graphlayout/internal/errorreporting"
	"github.com/onnwee/graphlayout/internal/logger"
	"github.com/onnwee/graphlayout/internal/metrics"
	"github.com/onnwee/graphlayout/internal/middleware"
	"github.com/onnwee/graphlayout/internal/sim"
	"github.com/onnwee/graphlayout/internal/tracing"
)

// CreateSimulation handles POST /simulations: builds a sim.Simulation from
// the request's nodes/links/forces, registers it under a fresh id, and
// starts its real-time timer.
func (st *Store) CreateSimulation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.CreateSimulation")
		defer span.End()

		var req CreateSimulationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
			return
		}
		if len(req.Nodes) == 0 {
			apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("nodes"))
			return
		}
		if len(req.Nodes) > st.cfg.LayoutMaxNodes {
			metrics.LayoutSimulationErrors.WithLabelValues("invalid_param").Inc()
			apierr.WriteErrorWithContext(w, r, apierr.SimTooManyNodes(len(req.Nodes), st.cfg.LayoutMaxNodes))
			return
		}

		var sanitizer middleware.SanitizeInput
		ids := make([]string, len(req.Nodes))
		nodes := make([]*sim.Node, len(req.Nodes))
		for i, ni := range req.Nodes {
			if err := sanitizer.ValidateNodeID(ni.ID); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("nodes[].id", err.Error()))
				return
			}
			ids[i] = ni.ID
			n := sim.Unplaced()
			if ni.X != nil {
				n.X = *ni.X
			}
			if ni.Y != nil {
				n.Y = *ni.Y
			}
			n.FX, n.FY = ni.FX, ni.FY
			nodes[i] = n
		}

		// ForceLink resolves links by node index, so wire ids are mapped to
		// index strings; an id with no node maps to "" and stays unresolved.
		index := make(map[string]string, len(ids))
		for i, id := range ids {
			index[id] = strconv.Itoa(i)
		}
		links := make([]*sim.Link, len(req.Links))
		for i, li := range req.Links {
			links[i] = &sim.Link{Index: i, SourceID: index[li.Source], TargetID: index[li.Target]}
		}

		s := sim.NewSimulation(nodes)
		if req.AlphaMin != nil {
			if err := s.SetAlphaMin(*req.AlphaMin); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("alphaMin", err.Error()))
				return
			}
		}
		if req.AlphaDecay != nil {
			if err := s.SetAlphaDecay(*req.AlphaDecay); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("alphaDecay", err.Error()))
				return
			}
		}
		if req.AlphaTarget != nil {
			if err := s.SetAlphaTarget(*req.AlphaTarget); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("alphaTarget", err.Error()))
				return
			}
		}
		if req.VelocityDecay != nil {
			if err := s.SetVelocityDecay(*req.VelocityDecay); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidValue("velocityDecay", err.Error()))
				return
			}
		}

		unresolved := BindForces(s, links, req.Forces)
		if unresolved > 0 {
			metrics.LayoutSimulationErrors.WithLabelValues("link_unresolved").Inc()
			apiErr := apierr.SimLinkUnresolved(unresolved)
			errorreporting.CaptureErrorWithContext(apiErr, map[string]string{"kind": "link_unresolved"},
				map[string]interface{}{"unresolved_count": unresolved, "node_count": len(nodes)})
			apierr.WriteErrorWithContext(w, r, apiErr)
			return
		}

		id := uuid.NewString()
		st.put(id, s, ids)

		span.SetAttributes(
			attribute.String("simulation_id", id),
			attribute.Int("node_count", len(nodes)),
			attribute.Int("link_count", len(links)),
		)
		logger.InfoContext(ctx, "simulation created", "simulation_id", id, "nodes", len(nodes), "links", len(links))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateSimulationResponse{ID: id, NodeCount: len(nodes), LinkCount: len(links)})
	}
}

// BindForces attaches the forces named in cfg (or a sensible default set
// when cfg is nil) to s, and returns the number of links whose endpoints
// failed to resolve to a node id.
func BindForces(s *sim.Simulation, links []*sim.Link, cfg *ForceConfig) int {
	if cfg == nil {
		s.Force("charge", sim.NewForceManyBody())
		if len(links) > 0 {
			lf := sim.NewForceLink(links)
			s.Force("link", lf)
			return lf.UnresolvedCount()
		}
		s.Force("center", sim.NewForceCenter(0, 0))
		return 0
	}

	unresolved := 0
	if cfg.Center != nil {
		s.Force("center", sim.NewForceCenter(cfg.Center.X, cfg.Center.Y))
	}
	if cfg.X != nil {
		fx := sim.NewForceX()
		if cfg.X.Target != nil {
			fx.X = sim.Const(*cfg.X.Target)
		}
		if cfg.X.Strength != nil {
			fx.Strength = sim.Const(*cfg.X.Strength)
		}
		s.Force("x", fx)
	}
	if cfg.Y != nil {
		fy := sim.NewForceY()
		if cfg.Y.Target != nil {
			fy.Y = sim.Const(*cfg.Y.Target)
		}
		if cfg.Y.Strength != nil {
			fy.Strength = sim.Const(*cfg.Y.Strength)
		}
		s.Force("y", fy)
	}
	if cfg.Radial != nil {
		fr := sim.NewForceRadial(sim.Const(cfg.Radial.Radius))
		if cfg.Radial.X != nil {
			fr.X = *cfg.Radial.X
		}
		if cfg.Radial.Y != nil {
			fr.Y = *cfg.Radial.Y
		}
		if cfg.Radial.Strength != nil {
			fr.Strength = sim.Const(*cfg.Radial.Strength)
		}
		s.Force("radial", fr)
	}
	if cfg.Collide != nil {
		radius := sim.Const(1)
		if cfg.Collide.Radius != nil {
			radius = sim.Const(*cfg.Collide.Radius)
		}
		fc := sim.NewForceCollide(radius)
		if cfg.Collide.Strength != nil {
			fc.Strength = *cfg.Collide.Strength
		}
		if cfg.Collide.Iterations != nil {
			fc.Iterations = *cfg.Collide.Iterations
		}
		s.Force("collide", fc)
	}
	if cfg.ManyBody != nil {
		fm := sim.NewForceManyBody()
		if cfg.ManyBody.Strength != nil {
			fm.Strength = sim.Const(*cfg.ManyBody.Strength)
		}
		if cfg.ManyBody.Theta != nil {
			fm.Theta = *cfg.ManyBody.Theta
		}
		if cfg.ManyBody.DistanceMin != nil {
			fm.DistanceMin = *cfg.ManyBody.DistanceMin
		}
		if cfg.ManyBody.DistanceMax != nil {
			fm.DistanceMax = *cfg.ManyBody.DistanceMax
		}
		s.Force("charge", fm)
	}
	if cfg.Link != nil && len(links) > 0 {
		lf := sim.NewForceLink(links)
		if cfg.Link.Distance != nil {
			lf.Distance = sim.ConstLink(*cfg.Link.Distance)
		}
		if cfg.Link.Strength != nil {
			lf.Strength = sim.ConstLink(*cfg.Link.Strength)
		}
		if cfg.Link.Iterations != nil {
			lf.Iterations = *cfg.Link.Iterations
		}
		s.Force("link", lf)
		unresolved = lf.UnresolvedCount()
	}
	return unresolved
}

// GetSimulation handles GET /simulations/{id}: returns the current node
// snapshot, serving from the ristretto snapshot cache when the generation
// hasn't advanced since it was populated.
func (st *Store) GetSimulation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		handle, e, ok := st.get(id)
		if !ok {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotFound(id))
			return
		}

		key := snapshotCacheKey(id, handle.Sim.Generation())
		if cached, hit := st.cache.Get(key); hit {
			metrics.APICacheHits.WithLabelValues("get_simulation").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}
		metrics.APICacheMisses.WithLabelValues("get_simulation").Inc()

		payload, err := encodeSnapshot(id, handle.Sim, e)
		if err != nil {
			apierr.WriteErrorWithContext(w, r, apierr.SystemInternal(""))
			return
		}
		st.cache.Set(key, payload, 0)

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

func encodeSnapshot(id string, s *sim.Simulation, e *entry) ([]byte, error) {
	e.mu.Lock()
	ids := e.ids
	e.mu.Unlock()

	nodes := s.Nodes()
	snap := SnapshotResponse{
		ID:         id,
		Alpha:      s.Alpha(),
		Generation: s.Generation(),
		Nodes:      make([]NodeSnapshot, len(nodes)),
	}
	for i, n := range nodes {
		nodeID := strconv.Itoa(i)
		if i < len(ids) {
			nodeID = ids[i]
		}
		snap.Nodes[i] = snapshotNode(n, nodeID)
	}
	return json.Marshal(snap)
}

// TickSimulation handles POST /simulations/{id}/tick: advances a stopped
// simulation by the requested number of iterations (default 1), mirroring
// the core driver's manual tick(iterations) call.
func (st *Store) TickSimulation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.StartSpan(r.Context(), "handlers.TickSimulation")
		defer span.End()

		id := mux.Vars(r)["id"]
		handle, e, ok := st.get(id)
		if !ok {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotFound(id))
			return
		}
		if handle.Running() {
			apierr.WriteErrorWithContext(w, r, apierr.SimAlreadyRunning(id))
			return
		}

		var req TickRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.ValidationInvalidJSON())
				return
			}
		}
		if req.Iterations <= 0 {
			req.Iterations = 1
		}

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "tick panicked", "simulation_id", id, "recover", rec)
				metrics.LayoutTicksTotal.WithLabelValues("failed").Inc()
				apierr.WriteErrorWithContext(w, r, apierr.SimTickFailed(""))
			}
		}()

		handle.Sim.Tick(req.Iterations)
		metrics.LayoutTicksTotal.WithLabelValues("success").Inc()
		st.publish(id, handle.Sim, e)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"generation": handle.Sim.Generation(),
			"alpha":      handle.Sim.Alpha(),
		})
	}
}

// StopSimulation handles POST /simulations/{id}/stop: halts the timer so
// the simulation only advances via manual /tick calls.
func (st *Store) StopSimulation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		handle, e, ok := st.get(id)
		if !ok {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotFound(id))
			return
		}
		if !handle.Running() {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotRunning(id))
			return
		}
		e.timer.Stop()
		handle.SetRunning(false)
		w.WriteHeader(http.StatusNoContent)
	}
}

// RestartSimulation handles POST /simulations/{id}/restart: restarts the
// timer at the current alpha, matching the core driver's restart()
// (unlike a fresh simulation, this does not reset alpha to 1).
func (st *Store) RestartSimulation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		handle, e, ok := st.get(id)
		if !ok {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotFound(id))
			return
		}
		if handle.Running() {
			apierr.WriteErrorWithContext(w, r, apierr.SimAlreadyRunning(id))
			return
		}
		e.timer.Start()
		handle.SetRunning(true)
		w.WriteHeader(http.StatusNoContent)
	}
}

// FindNode handles GET /simulations/{id}/find?x=&y=&radius=: nearest node
// lookup, mirroring the core driver's find(x, y, radius).
func (st *Store) FindNode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		handle, e, ok := st.get(id)
		if !ok {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotFound(id))
			return
		}

		q := r.URL.Query()
		x, xerr := strconv.ParseFloat(q.Get("x"), 64)
		y, yerr := strconv.ParseFloat(q.Get("y"), 64)
		if xerr != nil || yerr != nil {
			apierr.WriteErrorWithContext(w, r, apierr.SimInvalidParam("x,y", "x and y query parameters must be numbers"))
			return
		}
		radius := math.Inf(1)
		if rv := q.Get("radius"); rv != "" {
			parsed, err := strconv.ParseFloat(rv, 64)
			if err != nil {
				apierr.WriteErrorWithContext(w, r, apierr.SimInvalidParam("radius", ""))
				return
			}
			radius = parsed
		}

		node := handle.Sim.Find(x, y, radius)
		w.Header().Set("Content-Type", "application/json")
		if node == nil {
			json.NewEncoder(w).Encode(FindResponse{Found: false})
			return
		}
		e.mu.Lock()
		nodeID := strconv.Itoa(node.Index)
		if node.Index < len(e.ids) {
			nodeID = e.ids[node.Index]
		}
		e.mu.Unlock()
		snap := snapshotNode(node, nodeID)
		json.NewEncoder(w).Encode(FindResponse{Found: true, Node: &snap})
	}
}
