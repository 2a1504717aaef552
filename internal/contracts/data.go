package contracts

// FactRow is one long-format financial statement observation, already
// joined against the sector map upstream. Value is nil when the source
// holds no usable number for the observation.
type FactRow struct {
	Ticker  string   `json:"ticker"`
	Period  string   `json:"period"`
	Keycode string   `json:"keycode"`
	Value   *float64 `json:"value"`
	Sector  string   `json:"sector"`
	L1      string   `json:"l1"`
	L2      string   `json:"l2"`
}

// SectorAssignment maps one ticker to its hierarchical sector taxonomy.
// The sector map covers the full universe regardless of who has reported.
type SectorAssignment struct {
	Ticker string `json:"ticker"`
	Sector string `json:"sector"`
	L1     string `json:"l1"`
	L2     string `json:"l2"`
}
