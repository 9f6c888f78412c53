package core

// 无推荐结果时的原因码。空字符串表示正常返回。
const (
	ReasonNone             = ""
	ReasonNoInterestSignal = "no interest signal"
	ReasonIndexEmpty       = "index returned nothing"
	ReasonGatedEmpty       = "gated empty"
	ReasonFilteredEmpty    = "filtered to empty"
)
