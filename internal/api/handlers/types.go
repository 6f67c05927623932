package handlers

import "github.com/onnwee/graphlayout/internal/sim"

// NodeInput is the wire representation of a node in a create-simulation
// request. Position fields are pointers so that omitting them triggers
// phyllotaxis seeding (sim.Unplaced) rather than pinning a node at the
// origin.
type NodeInput struct {
	ID string   `json:"id"`
	X  *float64 `json:"x,omitempty"`
	Y  *float64 `json:"y,omitempty"`
	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`
}

// LinkInput is the wire representation of a link in a create-simulation
// request.
type LinkInput struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Distance *float64 `json:"distance,omitempty"`
	Strength *float64 `json:"strength,omitempty"`
}

// ForceConfig selects and parameterizes the forces a simulation runs.
// Every field is optional; a force is only attached when its config is
// present. Values are constants rather than per-node accessors — the
// wire protocol has no way to express a function, so request bodies can
// only drive the Const/ConstLink side of the accessor protocol.
type ForceConfig struct {
	Center    *CenterForceConfig    `json:"center,omitempty"`
	X         *AxisForceConfig      `json:"x,omitempty"`
	Y         *AxisForceConfig      `json:"y,omitempty"`
	Radial    *RadialForceConfig    `json:"radial,omitempty"`
	Collide   *CollideForceConfig   `json:"collide,omitempty"`
	Link      *LinkForceConfig      `json:"link,omitempty"`
	ManyBody  *ManyBodyForceConfig  `json:"manyBody,omitempty"`
}

type CenterForceConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AxisForceConfig struct {
	Target   *float64 `json:"target,omitempty"`
	Strength *float64 `json:"strength,omitempty"`
}

type RadialForceConfig struct {
	Radius   float64  `json:"radius"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Strength *float64 `json:"strength,omitempty"`
}

type CollideForceConfig struct {
	Radius     *float64 `json:"radius,omitempty"`
	Strength   *float64 `json:"strength,omitempty"`
	Iterations *int     `json:"iterations,omitempty"`
}

type LinkForceConfig struct {
	Distance   *float64 `json:"distance,omitempty"`
	Strength   *float64 `json:"strength,omitempty"`
	Iterations *int     `json:"iterations,omitempty"`
}

type ManyBodyForceConfig struct {
	Strength    *float64 `json:"strength,omitempty"`
	Theta       *float64 `json:"theta,omitempty"`
	DistanceMin *float64 `json:"distanceMin,omitempty"`
	DistanceMax *float64 `json:"distanceMax,omitempty"`
}

// CreateSimulationRequest is the body of POST /simulations.
type CreateSimulationRequest struct {
	Nodes  []NodeInput  `json:"nodes"`
	Links  []LinkInput  `json:"links,omitempty"`
	Forces *ForceConfig `json:"forces,omitempty"`

	AlphaMin      *float64 `json:"alphaMin,omitempty"`
	AlphaDecay    *float64 `json:"alphaDecay,omitempty"`
	AlphaTarget   *float64 `json:"alphaTarget,omitempty"`
	VelocityDecay *float64 `json:"velocityDecay,omitempty"`
}

// CreateSimulationResponse is the body returned by POST /simulations.
type CreateSimulationResponse struct {
	ID        string `json:"id"`
	NodeCount int    `json:"node_count"`
	LinkCount int    `json:"link_count"`
}

// NodeSnapshot is one node's kinematic state at the moment a snapshot was
// taken.
type NodeSnapshot struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// SnapshotResponse is the body returned by GET /simulations/{id}.
type SnapshotResponse struct {
	ID         string         `json:"id"`
	Alpha      float64        `json:"alpha"`
	Generation int            `json:"generation"`
	Running    bool           `json:"running"`
	Nodes      []NodeSnapshot `json:"nodes"`
}

// TickRequest is the optional body of POST /simulations/{id}/tick.
type TickRequest struct {
	Iterations int `json:"iterations,omitempty"`
}

// FindResponse is the body returned by GET /simulations/{id}/find.
type FindResponse struct {
	Found bool          `json:"found"`
	Node  *NodeSnapshot `json:"node,omitempty"`
}

func snapshotNode(n *sim.Node, id string) NodeSnapshot {
	return NodeSnapshot{ID: id, X: n.X, Y: n.Y, VX: n.VX, VY: n.VY}
}
