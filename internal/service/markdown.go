package service

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	coachMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	coachSanitizer = bluemonday.UGCPolicy()
)

// renderCoachHTML 将模型输出的 Markdown 行渲染为可直接展示的安全 HTML。
// 渲染失败时退化为纯文本消毒，保证不会因为格式问题丢内容。
func renderCoachHTML(lines []string) []string {
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		var buf bytes.Buffer
		if err := coachMarkdown.Convert([]byte(line), &buf); err != nil {
			rendered = append(rendered, coachSanitizer.Sanitize(line))
			continue
		}
		safe := coachSanitizer.SanitizeBytes(buf.Bytes())
		rendered = append(rendered, strings.TrimSpace(string(safe)))
	}
	return rendered
}
