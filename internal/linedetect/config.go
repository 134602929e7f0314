package linedetect

// Params holds the tuning constants for both detection strategies.
//
// The defaults are empirically tuned values with no principled
// derivation; they are carried as named, overridable fields so that a
// config file can adjust them without a rebuild. Zero values in an
// override mean "keep the default" (see Merge).
type Params struct {
	// DarkRegion strategy.

	// DarkPercentile is the luminance percentile used as the darkness
	// threshold (0-1).
	DarkPercentile float64 `yaml:"dark_percentile" json:"dark_percentile"`

	// LightLumaCutoff guards against nearly uniform light images: when
	// the luma at DarkPercentile exceeds this value, the threshold drops
	// to FaintPercentile so background is not selected as "dark".
	LightLumaCutoff float64 `yaml:"light_luma_cutoff" json:"light_luma_cutoff"`

	// FaintPercentile is the stricter percentile used on light images.
	FaintPercentile float64 `yaml:"faint_percentile" json:"faint_percentile"`

	// DarkFallbackShare is the fraction of darkest pixels selected when
	// no connected dark component exists (0-1).
	DarkFallbackShare float64 `yaml:"dark_fallback_share" json:"dark_fallback_share"`

	// RedLine strategy.

	// EdgeMargin is the border band, in pixels, excluded on all sides to
	// reject scanner and cassette-edge artifacts.
	EdgeMargin int `yaml:"edge_margin" json:"edge_margin"`

	// BackgroundMean is the mean-channel value at or above which a pixel
	// counts as background and scores zero.
	BackgroundMean float64 `yaml:"background_mean" json:"background_mean"`

	// RedCloseness is how near R may sit below G (while still exceeding
	// B) for a washed-out pink pixel to count as red-dominant.
	RedCloseness int `yaml:"red_closeness" json:"red_closeness"`

	// RedExcessWeight scales the red-channel excess term of the score.
	RedExcessWeight float64 `yaml:"red_excess_weight" json:"red_excess_weight"`

	// CenterWindow is the half-width of the per-row averaging window used
	// to find the line-center column.
	CenterWindow int `yaml:"center_window" json:"center_window"`

	// MinCenterScore is the windowed score below which a row's center is
	// rejected as too weak to trust.
	MinCenterScore float64 `yaml:"min_center_score" json:"min_center_score"`

	// InterpolateRange is how many rows up/down to search for a defined
	// center when filling in rejected rows.
	InterpolateRange int `yaml:"interpolate_range" json:"interpolate_range"`

	// SmoothWindow is the half-width, in rows, of the moving average
	// applied to the center-column sequence.
	SmoothWindow int `yaml:"smooth_window" json:"smooth_window"`

	// MaxHalfWidth bounds the outward search for line pixels on each side
	// of the center column.
	MaxHalfWidth int `yaml:"max_half_width" json:"max_half_width"`

	// StopRatio and AcceptRatio scale the center score into the adaptive
	// cutoffs: expansion stops where the score drops below
	// max(MinScore, center*StopRatio), and pixels are accepted at or
	// above max(MinScore, center*AcceptRatio).
	StopRatio   float64 `yaml:"stop_ratio" json:"stop_ratio"`
	AcceptRatio float64 `yaml:"accept_ratio" json:"accept_ratio"`

	// MinScore is the absolute floor for both adaptive cutoffs.
	MinScore float64 `yaml:"min_score" json:"min_score"`

	// MinRowCoverage is the fraction of interior rows that must accept at
	// least one pixel before the row-following result is trusted (0-1).
	MinRowCoverage float64 `yaml:"min_row_coverage" json:"min_row_coverage"`

	// ScoreFallbackShare is the fraction of positive-score pixels,
	// ranked by score, selected when row-following is discarded (0-1).
	ScoreFallbackShare float64 `yaml:"score_fallback_share" json:"score_fallback_share"`
}

// DefaultParams returns the tuned defaults for both strategies.
func DefaultParams() Params {
	return Params{
		DarkPercentile:    0.15,
		LightLumaCutoff:   180,
		FaintPercentile:   0.05,
		DarkFallbackShare: 0.20,

		EdgeMargin:         5,
		BackgroundMean:     220,
		RedCloseness:       50,
		RedExcessWeight:    0.5,
		CenterWindow:       5,
		MinCenterScore:     5,
		InterpolateRange:   10,
		SmoothWindow:       3,
		MaxHalfWidth:       8,
		StopRatio:          0.3,
		AcceptRatio:        0.25,
		MinScore:           2,
		MinRowCoverage:     0.10,
		ScoreFallbackShare: 0.15,
	}
}

// Merge overlays non-zero fields of o onto p and returns the result.
// Used to apply partial overrides from config files or tool arguments
// without repeating every default.
func (p Params) Merge(o Params) Params {
	merged := p
	if o.DarkPercentile != 0 {
		merged.DarkPercentile = o.DarkPercentile
	}
	if o.LightLumaCutoff != 0 {
		merged.LightLumaCutoff = o.LightLumaCutoff
	}
	if o.FaintPercentile != 0 {
		merged.FaintPercentile = o.FaintPercentile
	}
	if o.DarkFallbackShare != 0 {
		merged.DarkFallbackShare = o.DarkFallbackShare
	}
	if o.EdgeMargin != 0 {
		merged.EdgeMargin = o.EdgeMargin
	}
	if o.BackgroundMean != 0 {
		merged.BackgroundMean = o.BackgroundMean
	}
	if o.RedCloseness != 0 {
		merged.RedCloseness = o.RedCloseness
	}
	if o.RedExcessWeight != 0 {
		merged.RedExcessWeight = o.RedExcessWeight
	}
	if o.CenterWindow != 0 {
		merged.CenterWindow = o.CenterWindow
	}
	if o.MinCenterScore != 0 {
		merged.MinCenterScore = o.MinCenterScore
	}
	if o.InterpolateRange != 0 {
		merged.InterpolateRange = o.InterpolateRange
	}
	if o.SmoothWindow != 0 {
		merged.SmoothWindow = o.SmoothWindow
	}
	if o.MaxHalfWidth != 0 {
		merged.MaxHalfWidth = o.MaxHalfWidth
	}
	if o.StopRatio != 0 {
		merged.StopRatio = o.StopRatio
	}
	if o.AcceptRatio != 0 {
		merged.AcceptRatio = o.AcceptRatio
	}
	if o.MinScore != 0 {
		merged.MinScore = o.MinScore
	}
	if o.MinRowCoverage != 0 {
		merged.MinRowCoverage = o.MinRowCoverage
	}
	if o.ScoreFallbackShare != 0 {
		merged.ScoreFallbackShare = o.ScoreFallbackShare
	}
	return merged
}
