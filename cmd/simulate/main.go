// Command simulate runs a layout simulation to convergence outside the
// HTTP binding: read a JSON node/link file, tick until alpha < alphaMin,
// print the resulting positions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/onnwee/graphlayout/internal/api/handlers"
	"github.com/onnwee/graphlayout/internal/sim"
)

func main() {
	inputPath := flag.String("input", "", "path to a JSON file with {nodes, links, forces}")
	maxTicks := flag.Int("max-ticks", 1000, "give up after this many ticks even if alpha hasn't settled")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("-input is required")
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("failed to read input file: %v", err)
	}

	var req handlers.CreateSimulationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatalf("failed to parse input file: %v", err)
	}
	if len(req.Nodes) == 0 {
		log.Fatal("input file must contain at least one node")
	}

	ids := make([]string, len(req.Nodes))
	nodes := make([]*sim.Node, len(req.Nodes))
	for i, ni := range req.Nodes {
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
		index[id] = fmt.Sprint(i)
	}
	links := make([]*sim.Link, len(req.Links))
	for i, li := range req.Links {
		links[i] = &sim.Link{Index: i, SourceID: index[li.Source], TargetID: index[li.Target]}
	}

	s := sim.NewSimulation(nodes)
	if req.AlphaMin != nil {
		if err := s.SetAlphaMin(*req.AlphaMin); err != nil {
			log.Fatalf("invalid alphaMin: %v", err)
		}
	}
	if req.AlphaDecay != nil {
		if err := s.SetAlphaDecay(*req.AlphaDecay); err != nil {
			log.Fatalf("invalid alphaDecay: %v", err)
		}
	}
	if unresolved := handlers.BindForces(s, links, req.Forces); unresolved > 0 {
		log.Fatalf("%d link(s) reference unknown node ids", unresolved)
	}

	ticks := 0
	for s.Alpha() >= s.AlphaMin() && ticks < *maxTicks {
		s.Tick(1)
		ticks++
	}

	fmt.Fprintf(os.Stderr, "converged after %d ticks (alpha=%.6f)\n", ticks, s.Alpha())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	type output struct {
		ID string  `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	}
	results := make([]output, len(nodes))
	for i, n := range nodes {
		results[i] = output{ID: ids[i], X: n.X, Y: n.Y}
	}
	if err := enc.Encode(results); err != nil {
		log.Fatalf("failed to encode output: %v", err)
	}
}
