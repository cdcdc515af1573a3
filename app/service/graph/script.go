package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
)

const (
	cmdAddNode = "addnode"
	cmdAddEdge = "addedge"
)

// ImportString is ImportScript over an in-memory script.
func (g *Graph) ImportString(script string) error {
	return g.ImportScript(strings.NewReader(script))
}

// ImportScript applies a builder script line by line:
//
//	/addnode <name>
//	/addedge <name1>,<name2>
//
// Names are resolved against nodes declared earlier in the same script. The
// import is all or nothing.
func (g *Graph) ImportScript(r io.Reader) error {
	work := g.clone()
	names := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		cmd, args, ok := SplitCommand(scanner.Text())
		if !ok {
			continue
		}

		errb := oops.In("graph").With("line", lineNo, "command", cmd)

		switch cmd {
		case cmdAddNode:
			if len(args) == 0 || args[0] == "" {
				return errb.Code("syntax").Wrapf(ErrSyntax, "line %d: addnode needs a name", lineNo)
			}

			id := work.NextID()
			if err := work.AddNode(id, args[0], nil, nil); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			names[args[0]] = id

		case cmdAddEdge:
			if len(args) < 2 {
				return errb.Code("syntax").Wrapf(ErrSyntax, "line %d: addedge needs two names", lineNo)
			}

			from, ok := names[args[0]]
			if !ok {
				return errb.Code("unknown_node").With("name", args[0]).Wrapf(ErrUnknownNode, "line %d", lineNo)
			}
			to, ok := names[args[1]]
			if !ok {
				return errb.Code("unknown_node").With("name", args[1]).Wrapf(ErrUnknownNode, "line %d", lineNo)
			}

			if err := work.AddEdge(from, to); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read builder script: %w", err)
	}

	g.replace(work)

	return nil
}

// SplitCommand splits "/cmd a, b" into "cmd" and the trimmed comma separated
// arguments. Blank lines report ok=false.
func SplitCommand(line string) (string, []string, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return "", nil, false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return cmd, nil, true
	}

	args := strings.Split(rest, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	return cmd, args, true
}
