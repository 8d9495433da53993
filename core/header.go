package core

import (
	"fmt"
	"time"

	"github.com/huangsam/opsreport/internal/contract"
	"github.com/huangsam/opsreport/schema"
)

// logPipelineHeader prints a concise, 2-line header before a pipeline runs.
// Structured output formats get no header so stdout stays parseable.
func logPipelineHeader(cfg *contract.Config, pipeline schema.Pipeline, source string) {
	if cfg.Output != schema.TextOut {
		return
	}
	fmt.Printf("🔎 Pipeline: %s (Source: %s)\n", pipeline, source)
	fmt.Printf("📅 Started: %s\n", time.Now().Format(contract.DateTimeFormat))
}
