package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/chaos-io/transpalentor/api"
	nhttp "github.com/chaos-io/transpalentor/util/http"
)

const (
	uploadPath  = "/api/upload"
	processPath = "/api/process"
	erasePath   = "/api/erase"
)

// Client 背景去除服务的 HTTP 客户端
type Client struct {
	baseURL string
	cli     nhttp.IClient
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient 替换底层的请求实现
func WithHTTPClient(cli nhttp.IClient) Option { return func(c *Client) { c.cli = cli } }

// WithTimeout 单次请求超时，0 表示使用底层客户端的默认值
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// New baseURL 为空时请求相对路径，适用于和页面同源部署
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cli:     nhttp.NewHTTPClient(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Upload 以 multipart 字段 file 上传图片
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*api.UploadResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	resp := &api.UploadResponse{}
	err = c.cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: c.baseURL + uploadPath,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   resp,
		Timeout:    c.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	return resp, nil
}

func (c *Client) Process(ctx context.Context, req *api.ProcessRequest) (*api.ProcessResponse, error) {
	resp := &api.ProcessResponse{}
	if err := c.postJSON(ctx, processPath, req, resp); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}
	return resp, nil
}

func (c *Client) Erase(ctx context.Context, req *api.EraseRequest) (*api.EraseResponse, error) {
	resp := &api.EraseResponse{}
	if err := c.postJSON(ctx, erasePath, req, resp); err != nil {
		return nil, fmt.Errorf("erase: %w", err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, resp interface{}) error {
	return c.cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: c.baseURL + path,
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       body,
		Response:   resp,
		Timeout:    c.timeout,
	})
}
