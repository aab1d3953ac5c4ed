package models

// FenceLineKey identifies one line of a fence estimate.
type FenceLineKey string

const (
	FenceLineMaterial   FenceLineKey = "material"
	FenceLineWalkGate   FenceLineKey = "walkGate"
	FenceLineDoubleGate FenceLineKey = "doubleGate"
	FenceLineRemoval    FenceLineKey = "removal"
)

// FenceSelection is the option set of the linear (fence) variant.
type FenceSelection struct {
	FenceType   string `json:"fenceType"`
	WalkGates   int    `json:"walkGates"`
	DoubleGates int    `json:"doubleGates"`
	RemoveOld   bool   `json:"removeOld"`
}

// FenceRateCard prices the fence variant.
type FenceRateCard struct {
	DefaultType    string             `json:"defaultType" mapstructure:"default_type"`
	PerFoot        map[string]float64 `json:"perFoot" mapstructure:"per_foot"`
	WalkGate       float64            `json:"walkGate" mapstructure:"walk_gate"`
	DoubleGate     float64            `json:"doubleGate" mapstructure:"double_gate"`
	RemovalPerFoot float64            `json:"removalPerFoot" mapstructure:"removal_per_foot"`
}

// FenceLineItem is one priced line of a fence estimate.
type FenceLineItem struct {
	Key      FenceLineKey `json:"key"`
	Label    string       `json:"label"`
	Quantity float64      `json:"quantity"`
	Price    float64      `json:"price"`
}

// FenceQuote is a linear measurement priced against a fence selection.
type FenceQuote struct {
	Feet      float64         `json:"feet"`
	FenceType string          `json:"fenceType"`
	LineItems []FenceLineItem `json:"lineItems"`
	Total     float64         `json:"total"`
}

// FenceSubmission is the body of POST /api/fence-quote.
type FenceSubmission struct {
	LeadContact
	Feet  float64         `json:"feet" binding:"gte=0"`
	Fence FenceSelection  `json:"fence"`
	Items []FenceLineItem `json:"items" binding:"required,min=1,dive"`
	Total float64         `json:"total" binding:"gte=0"`
}
