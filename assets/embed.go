// Package assets 内嵌的页面外壳，wasm 前端挂载在这些元素上
package assets

import "embed"

//go:embed index.html app.css
var FS embed.FS

// Index 首页 HTML
func Index() []byte {
	data, err := FS.ReadFile("index.html")
	if err != nil {
		panic(err)
	}
	return data
}
