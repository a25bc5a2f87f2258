package http

import (
	"context"
	"time"
)

// IClient 发送一次 HTTP 请求
type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

// RequestParam 一次 HTTP 请求的参数
//
// Body 可以是 io.Reader、[]byte 或任意可 JSON 序列化的值；
// Response 非空时，2xx 响应体会被 JSON 解码到其中。
type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       interface{}
	Response   interface{}

	Timeout time.Duration
}
