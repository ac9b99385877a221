package shell

import (
	"fmt"
	"sort"
	"strings"
)

const (
	blockStartFmt = "# >>> groundwork %s >>>"
	blockEndFmt   = "# <<< groundwork %s <<<"
)

// ReadManagedBlock extracts the content between groundwork managed block
// markers. Returns empty string if the block is not found.
func ReadManagedBlock(content, section string) string {
	start := fmt.Sprintf(blockStartFmt, section)
	end := fmt.Sprintf(blockEndFmt, section)

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		return ""
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		return ""
	}

	blockStart := startIdx + len(start)
	if blockStart < len(content) && content[blockStart] == '\n' {
		blockStart++
	}

	if blockStart >= endIdx {
		return ""
	}

	return content[blockStart:endIdx]
}

// WriteManagedBlock replaces (or appends) a managed block in the content.
// Everything outside the markers is left untouched, so the profile stays
// the user's file with one scoped region owned by the tool.
func WriteManagedBlock(content, section, block string) string {
	start := fmt.Sprintf(blockStartFmt, section)
	end := fmt.Sprintf(blockEndFmt, section)

	managedBlock := start + "\n" + block + end + "\n"

	startIdx := strings.Index(content, start)
	if startIdx == -1 {
		// Block doesn't exist, append it
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + managedBlock
	}

	endIdx := strings.Index(content, end)
	if endIdx == -1 {
		// Malformed block: start exists but no end. Replace from start to EOF.
		return content[:startIdx] + managedBlock
	}

	afterEnd := endIdx + len(end)
	if afterEnd < len(content) && content[afterEnd] == '\n' {
		afterEnd++
	}

	return content[:startIdx] + managedBlock + content[afterEnd:]
}

// generateEnvBlock produces export lines for a managed env block.
func generateEnvBlock(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%q\n", k, env[k])
	}
	return b.String()
}

// generateAliasBlock produces alias lines for a managed aliases block.
func generateAliasBlock(aliases map[string]string) string {
	if len(aliases) == 0 {
		return ""
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "alias %s=%q\n", k, aliases[k])
	}
	return b.String()
}
