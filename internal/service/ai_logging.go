package service

import (
	"log"
	"strings"
)

// 单条日志最多保留的字符数，避免 30 天提示词把日志刷满
const aiLogSnippetLimit = 800

// logAIExchange 记录教练链路的提示词与模型回复摘要，便于排查生成质量问题。
func logAIExchange(kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[focusup:ai:%s] %s 为空", kind, phase)
		return
	}

	runes := []rune(trimmed)
	snippet := trimmed
	if len(runes) > aiLogSnippetLimit {
		snippet = string(runes[:aiLogSnippetLimit]) + "…(截断)"
	}
	log.Printf("[focusup:ai:%s] %s（%d 字）: %s", kind, phase, len(runes), snippet)
}
