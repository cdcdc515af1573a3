package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"learnassist/app/service/agent"
	"learnassist/app/service/conversation"
	"learnassist/app/service/graph"

	"github.com/elliotchance/pie/v2"
)

// Agents is the part of the agent registry commands talk to.
type Agents interface {
	Route(ctx context.Context, text, name string) (conversation.Reply, error)
	Decorate(name, key, value string) error
	ResetAll()
}

// Placer positions freshly created nodes.
type Placer interface {
	PlaceAtCenter(id int)
	InitializePositions()
}

// Sink receives every message commands produce, under a speaker name.
type Sink interface {
	Receive(ctx context.Context, text, source string)
}

const (
	DecorationGraph = "GRAPH"
)

type Interpreter struct {
	graph  *graph.Graph
	agents Agents
	placer Placer
	sink   Sink
}

func New(g *graph.Graph, agents Agents, placer Placer, sink Sink) *Interpreter {
	return &Interpreter{
		graph:  g,
		agents: agents,
		placer: placer,
		sink:   sink,
	}
}

// Privileged reports whether source may issue commands.
func Privileged(source string) bool {
	return source == agent.User || source == agent.BaseChat
}

// TryHandle runs the first command found in message. It returns false when
// source may not issue commands or message holds no slash at all.
func (i *Interpreter) TryHandle(ctx context.Context, message, source string) bool {
	if !Privileged(source) {
		return false
	}

	name, rest, ok := Parse(message, source == agent.BaseChat)
	if !ok {
		return false
	}

	slog.Info("Command",
		"source", source,
		"command", name,
		"args", rest)

	switch name {
	case "help":
		i.help(ctx, rest)
	case "addnode":
		i.addNode(ctx, Args(rest))
	case "addedge":
		i.addEdge(ctx, Args(rest))
	case "expand":
		i.expand(ctx, Args(rest))
	case "reset":
		i.agents.ResetAll()
		i.system(ctx, "Conversation history cleared")
	default:
		i.system(ctx, fmt.Sprintf("Unknown command /%s", name))
	}

	return true
}

// Parse extracts the command word and its argument text from the first
// slash on. Agent messages are cut at the first newline or double quote.
func Parse(message string, fromAgent bool) (name, rest string, ok bool) {
	idx := strings.Index(message, "/")
	if idx < 0 {
		return "", "", false
	}

	message = message[idx+1:]

	if fromAgent {
		if cut := strings.IndexAny(message, "\n\""); cut >= 0 {
			message = message[:cut]
		}
	}

	fields := strings.Fields(message)
	if len(fields) == 0 {
		return "", "", true
	}

	return fields[0], strings.Join(fields[1:], " "), true
}

// Args splits command text on commas and trims every piece.
func Args(rest string) []string {
	return pie.Map(strings.Split(rest, ","), strings.TrimSpace)
}

func (i *Interpreter) help(ctx context.Context, question string) {
	if err := i.agents.Decorate(agent.BaseChat, DecorationGraph, i.graph.String()); err != nil {
		i.fail(ctx, "help", err)
		return
	}

	reply, err := i.agents.Route(ctx, question, agent.BaseChat)
	if err != nil {
		i.fail(ctx, "help", err)
		return
	}
	if reply.Failure != nil {
		i.system(ctx, reply.Text)
		return
	}

	i.sink.Receive(ctx, reply.Text, agent.BaseChat)
}

func (i *Interpreter) addNode(ctx context.Context, args []string) {
	concept := args[0]
	if concept == "" {
		i.system(ctx, "Usage: /addnode <concept>")
		return
	}

	id := i.graph.NextID()
	if err := i.graph.AddNode(id, concept, nil, nil); err != nil {
		i.fail(ctx, "addnode", err)
		return
	}

	i.placer.PlaceAtCenter(id)
	i.system(ctx, fmt.Sprintf("Added node with ID %d for concept '%s'", id, concept))
}

func (i *Interpreter) addEdge(ctx context.Context, args []string) {
	ids, ok := i.nodeIDs(args, 2)
	if !ok {
		i.system(ctx, "Invalid node IDs provided")
		return
	}

	if err := i.graph.AddEdge(ids[0], ids[1]); err != nil {
		i.fail(ctx, "addedge", err)
		return
	}

	i.system(ctx, fmt.Sprintf("Added edge from ID %d to ID %d", ids[0], ids[1]))
}

// expand asks the expander agent for the prerequisites of a node and links
// each of them into the graph, reusing nodes with the same text.
func (i *Interpreter) expand(ctx context.Context, args []string) {
	ids, ok := i.nodeIDs(args, 1)
	if !ok {
		i.system(ctx, "Invalid node ID provided")
		return
	}

	node, _ := i.graph.Node(ids[0])

	reply, err := i.agents.Route(ctx, node.Text, agent.Expander)
	if err != nil {
		if errors.Is(err, conversation.ErrDataFormat) {
			i.system(ctx, fmt.Sprintf("Expander returned malformed data for '%s'", node.Text))
			slog.Warn("Expander reply rejected", "error", err)
			return
		}
		i.fail(ctx, "expand", err)
		return
	}
	if reply.Failure != nil {
		i.system(ctx, reply.Text)
		return
	}

	prerequisites := recordStrings(reply.Record, "prerequisites")

	added := 0
	for _, text := range prerequisites {
		pid, found := i.graph.FindByText(text)
		if !found {
			pid = i.graph.NextID()
			if err = i.graph.AddNode(pid, text, nil, nil); err != nil {
				i.fail(ctx, "expand", err)
				return
			}
			added++
		}

		if pid == node.ID {
			continue
		}

		if err = i.graph.AddEdge(pid, node.ID); err != nil {
			i.fail(ctx, "expand", err)
			return
		}
	}

	i.placer.InitializePositions()
	i.system(ctx, fmt.Sprintf("Expanded '%s' with %d prerequisites (%d new)", node.Text, len(prerequisites), added))
}

// nodeIDs parses the first n args as ids of existing nodes.
func (i *Interpreter) nodeIDs(args []string, n int) ([]int, bool) {
	if len(args) < n {
		return nil, false
	}

	ids := make([]int, 0, n)
	for _, arg := range args[:n] {
		id, err := strconv.Atoi(arg)
		if err != nil || !i.graph.Has(id) {
			return nil, false
		}
		ids = append(ids, id)
	}

	return ids, true
}

func (i *Interpreter) system(ctx context.Context, text string) {
	i.sink.Receive(ctx, text, agent.System)
}

func (i *Interpreter) fail(ctx context.Context, command string, err error) {
	slog.Error("Command failed", "command", command, "error", err)
	i.system(ctx, fmt.Sprintf("/%s failed: %v", command, err))
}

func recordStrings(record map[string]any, key string) []string {
	raw, _ := record[key].([]any)

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}

	return out
}
