package solve

import (
	"strings"

	"regexsolver/engine"
	"regexsolver/pattern"
)

// ToolResult is the output of a post-processing tool.
type ToolResult struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

// runTool runs the tool on the text. On engine failure the result is empty and the error is returned.
func runTool(inv engine.Invoker, spec pattern.Spec, text string, tool Tool) (res ToolResult, err *engine.Error) {
	res.ID = tool.toolID()

	switch t := tool.(type) {
	case ReplaceTool:
		res.Result, err = replace(inv, spec, text, t.Input)
	case ListTool:
		res.Result, err = list(inv, spec, text, t.Input)
	}

	return
}

// replace substitutes every match if the pattern is global, else only the first.
func replace(inv engine.Invoker, spec pattern.Spec, text string, input string) (string, *engine.Error) {
	o := inv.Invoke(spec, text)
	switch o.Kind {
	case engine.Failed:
		return "", o.Err
	case engine.NoMatch:
		return text, nil
	}

	t := pattern.ParseTemplate(input)
	var b strings.Builder
	last := 0
	for _, loc := range o.Matches {
		b.WriteString(text[last:loc[0]])
		t.Expand(&b, text, loc)
		last = loc[1]
	}
	b.WriteString(text[last:])

	return b.String(), nil
}

// list expands the template for every match, left to right, and concatenates the expansions.
func list(inv engine.Invoker, spec pattern.Spec, text string, input string) (string, *engine.Error) {
	o := inv.Invoke(spec.WithGlobal(true), text)
	if o.Kind == engine.Failed {
		return "", o.Err
	}

	t := pattern.ParseTemplate(input)
	var b strings.Builder
	for _, loc := range o.Matches {
		t.Expand(&b, text, loc)
	}

	return b.String(), nil
}
