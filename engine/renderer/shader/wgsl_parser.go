package shader

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations such as:
	//   @group(0) @binding(0) var<uniform> transform: mat4x4f;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// UniformBinding describes one var<uniform> declaration of a WGSL module.
type UniformBinding struct {
	Group   int
	Binding int
	Name    string
	Type    string
}

// parseEntryPoint extracts the entry point function name for the given stage
// from WGSL source. Returns an empty string if no matching entry point annotation is found.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - stage: StageVertex or StageFragment
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, stage Stage) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch stage {
	case StageVertex:
		re = vertexEntryRegex
	case StageFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseUniformBindings extracts all @group(N) @binding(M) var<uniform> declarations.
// Storage buffers, textures and samplers are ignored.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - []UniformBinding: the uniform declarations in source order
func parseUniformBindings(source string) []UniformBinding {
	var out []UniformBinding
	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1) {
		if strings.TrimSpace(match[3]) != "uniform" {
			continue
		}
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		out = append(out, UniformBinding{
			Group:   group,
			Binding: binding,
			Name:    strings.TrimSpace(match[4]),
			Type:    strings.TrimSpace(match[5]),
		})
	}
	return out
}

// stripComments removes both single-line (//) and block (/* */) comments from WGSL source.
// Block comments may be nested per the WGSL specification.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}
