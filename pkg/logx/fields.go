package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldCity            = "city"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldHuntID          = "hunt-id"
	FieldIP              = "ip"
	FieldIndustry        = "industry"
	FieldPlaceID         = "place-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldScore           = "score"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
