// internal/assemble/batch.go
package assemble

import (
	"fmt"

	"github.com/user/weft/internal/registry"
	"github.com/user/weft/internal/types"
)

// Item is one element of a batched response stream: either a single event or
// a batch of consecutive same-tool, same-file invocations. Exactly one field
// is set.
type Item struct {
	Event *types.Event
	Batch *types.ToolBatch
}

// BatchTools post-processes one turn's response events, collapsing runs of
// two or more consecutive tool calls that share a tool name and a non-empty
// target file into a single ToolBatch. Tools whose input names no file are
// never batched. toolResults may be nil.
func BatchTools(events []*types.Event, toolResults map[string]*types.Event) []Item {
	var (
		out     []Item
		current *types.ToolBatch
	)

	flush := func() {
		if current == nil {
			return
		}
		if len(current.Items) == 1 {
			// A lone member renders identically to a standalone tool.
			out = append(out, Item{Event: current.Items[0].Event})
		} else {
			out = append(out, Item{Batch: current})
		}
		current = nil
	}

	for i, ev := range events {
		if ev.Kind != types.KindToolUse {
			flush()
			out = append(out, Item{Event: ev})
			continue
		}

		target := registry.TargetFile(registry.Canonicalize(ev.ToolName), ev.ToolInput)
		item := types.BatchItem{Event: ev, Result: lookupResult(toolResults, ev.ToolUseID)}

		if current != nil && current.ToolName == ev.ToolName && target != "" && current.TargetFile == target {
			current.Items = append(current.Items, item)
			continue
		}

		flush()
		if target == "" {
			out = append(out, Item{Event: ev})
			continue
		}
		current = &types.ToolBatch{
			ID:         fmt.Sprintf("batch-%d", i),
			ToolName:   ev.ToolName,
			TargetFile: target,
			Items:      []types.BatchItem{item},
		}
	}
	flush()
	return out
}

func lookupResult(toolResults map[string]*types.Event, toolUseID string) *types.Event {
	if toolUseID == "" || toolResults == nil {
		return nil
	}
	return toolResults[toolUseID]
}
