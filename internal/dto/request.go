package dto

// AnalyzeRequest represents the form fields of an attribution analysis
// request. The touchpoint file travels alongside as a multipart upload.
type AnalyzeRequest struct {
	ModelType             string  `form:"model_type" binding:"required" example:"linear"`
	LinkingMethod         string  `form:"linking_method" example:"auto"`
	AttributionWindowDays int     `form:"attribution_window_days" example:"30"`
	ConfidenceThreshold   float64 `form:"confidence_threshold" example:"0.7"`
	HalfLifeDays          float64 `form:"half_life_days" example:"7"`
	FirstTouchWeight      float64 `form:"first_touch_weight" example:"0.4"`
	LastTouchWeight       float64 `form:"last_touch_weight" example:"0.4"`
}

// ListAnalysesRequest represents an analysis history query request
type ListAnalysesRequest struct {
	Limit int `form:"limit" example:"20"`
}
