package metrics

// Metric names as they appear in maps, exports and API payloads.
const (
	NameRMSE    = "RMSE"
	NameNSC     = "NSC"
	NameCor     = "Cor"
	NameNRMSE   = "NRMSE"
	NameMAE     = "MAE"
	NameStdT    = "StdT"
	NameStdP    = "StdP"
	NameMuT     = "MuT"
	NameMuP     = "MuP"
	NamePERS    = "PERS"
	NameSSE     = "SSE"
	NameSSEN    = "SSEN"
	NameRMSEN   = "RMSEN"
	NameNRMSEN  = "NRMSEN"
	NameMARE    = "MARE"
	NameR2      = "R2"
	NameRSR     = "RSR"
	NamePBIAS   = "PBIAS"
	NameSMAPE   = "sMAPE"
	NameKGE2009 = "KGE2009"
	NameKGE2012 = "KGE2012"
	NameD       = "d"
	NameD1      = "d1"
	NamePo      = "Po"
	NamePu      = "Pu"
)

var names = []string{
	NameRMSE, NameNSC, NameCor, NameNRMSE, NameMAE,
	NameStdT, NameStdP, NameMuT, NameMuP,
	NamePERS, NameSSE, NameSSEN, NameRMSEN, NameNRMSEN,
	NameMARE, NameR2, NameRSR, NamePBIAS, NameSMAPE,
	NameKGE2009, NameKGE2012, NameD, NameD1,
	NamePo, NamePu,
}

// higherIsBetter lists the skill scores that rank in descending order.
// Every other metric is an error magnitude and ranks ascending.
var higherIsBetter = map[string]bool{
	NameNSC:     true,
	NameCor:     true,
	NameR2:      true,
	NameKGE2009: true,
	NameKGE2012: true,
	NameD:       true,
	NameD1:      true,
	NamePERS:    true,
}

// Names returns every scalar metric name in canonical order.
func Names() []string {
	return append([]string(nil), names...)
}

// HigherIsBetter reports whether larger values of the named metric mean
// a better fit.
func HigherIsBetter(name string) bool {
	return higherIsBetter[name]
}

// IsKnown reports whether name is a scalar metric produced by Compute.
func IsKnown(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ToMap flattens the scalar metrics into a name-keyed map.
func (m ErrorMetrics) ToMap() map[string]float64 {
	return map[string]float64{
		NameRMSE:    m.RMSE,
		NameNSC:     m.NSC,
		NameCor:     m.Cor,
		NameNRMSE:   m.NRMSE,
		NameMAE:     m.MAE,
		NameStdT:    m.StdT,
		NameStdP:    m.StdP,
		NameMuT:     m.MuT,
		NameMuP:     m.MuP,
		NamePERS:    m.PERS,
		NameSSE:     m.SSE,
		NameSSEN:    m.SSEN,
		NameRMSEN:   m.RMSEN,
		NameNRMSEN:  m.NRMSEN,
		NameMARE:    m.MARE,
		NameR2:      m.R2,
		NameRSR:     m.RSR,
		NamePBIAS:   m.PBIAS,
		NameSMAPE:   m.SMAPE,
		NameKGE2009: m.KGE2009,
		NameKGE2012: m.KGE2012,
		NameD:       m.D,
		NameD1:      m.D1,
		NamePo:      m.Po,
		NamePu:      m.Pu,
	}
}

// Group is a named set of metric descriptions.
type Group struct {
	Name    string            `json:"name"`
	Metrics map[string]string `json:"metrics"`
}

// Catalog describes every metric, grouped by purpose.
func Catalog() []Group {
	return []Group{
		{Name: "basic_errors", Metrics: map[string]string{
			NameRMSE:  "Root Mean Squared Error",
			NameMAE:   "Mean Absolute Error",
			NameSSE:   "Sum of Squared Errors",
			NameNRMSE: "Normalized RMSE (% of std(T))",
		}},
		{Name: "model_skill", Metrics: map[string]string{
			NameNSC: "Nash-Sutcliffe Efficiency (NSE)",
			NameCor: "Pearson correlation coefficient",
			NameR2:  "Coefficient of determination",
			NameRSR: "RMSE-to-StdDev ratio",
		}},
		{Name: "bias_metrics", Metrics: map[string]string{
			NamePBIAS: "Percent Bias",
			NameSMAPE: "Symmetric Mean Absolute Percentage Error",
			NameMARE:  "Mean Absolute Relative Error",
		}},
		{Name: "hydrology_specific", Metrics: map[string]string{
			NameKGE2009: "Kling-Gupta Efficiency (2009)",
			NameKGE2012: "Modified KGE (2012, CV ratio)",
			NameD:       "Index of Agreement (Willmott 1981)",
			NameD1:      "Modified Index of Agreement (absolute)",
		}},
		{Name: "persistence", Metrics: map[string]string{
			NamePERS:   "Coefficient of persistence",
			NameRMSEN:  "RMSE of naive lag-1 forecast",
			NameNRMSEN: "Normalized RMSEN",
			NameSSEN:   "SSE of persistence baseline",
		}},
		{Name: "statistics", Metrics: map[string]string{
			NameMuT:  "Mean of target values",
			NameMuP:  "Mean of predicted values",
			NameStdT: "Std dev of target (ddof=0)",
			NameStdP: "Std dev of predicted (ddof=0)",
		}},
		{Name: "error_analysis", Metrics: map[string]string{
			"Er":   "Error series (T - P)",
			NamePo: "Proportion of positions with Er <= 0 (overestimation or exact)",
			NamePu: "Proportion of positions with Er > 0 (underestimation)",
		}},
	}
}

// Conventions documents the fixed computation rules.
func Conventions() map[string]string {
	return map[string]string{
		"error_sign":    "Er = T - P (positive = underestimate)",
		"std_method":    "Population std (ddof=0)",
		"nan_handling":  "Pairwise deletion, requires >= 2 valid pairs",
		"zero_division": "Undefined ratios are NaN; NRMSE, RSR and NRMSEN are +Inf over zero spread",
	}
}
