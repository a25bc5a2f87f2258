package api

// UploadResponse POST /api/upload 的响应
type UploadResponse struct {
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
	ImageURL  string `json:"image_url"`
	Size      int64  `json:"size,omitempty"`
}

// ProcessRequest POST /api/process 的请求体
type ProcessRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Filename  string `json:"filename" binding:"required"`
	RGB       Colors `json:"rgb"`
	Threshold int    `json:"threshold" binding:"min=0,max=255"`
}

// ProcessResponse POST /api/process 的响应
type ProcessResponse struct {
	SessionID    string `json:"session_id,omitempty"`
	Filename     string `json:"filename"`
	ProcessedURL string `json:"processed_url"`
}

// EraseRequest POST /api/erase 的请求体
//
// Strokes 中每个坐标是 [x, y]，长度不为 2 的坐标会被服务端跳过。
type EraseRequest struct {
	SessionID string  `json:"session_id" binding:"required"`
	Filename  string  `json:"filename" binding:"required"`
	Strokes   [][]int `json:"strokes" binding:"required"`
	BrushSize int     `json:"brush_size" binding:"required,min=1"`
}

// EraseResponse POST /api/erase 的响应
type EraseResponse struct {
	SessionID    string `json:"session_id,omitempty"`
	Filename     string `json:"filename,omitempty"`
	ProcessedURL string `json:"processed_url"`
}

// ErrorResponse 非 2xx 响应体
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Error codes returned in ErrorResponse.ErrorCode.
const (
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeColorNotSpecified = "COLOR_NOT_SPECIFIED"
	CodeProcessing        = "PROCESSING_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)
