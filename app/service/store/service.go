package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"learnassist/app/config"
	"learnassist/app/service/graph"
	"learnassist/app/util/geom"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const (
	SaveExt   = ".graph"
	ScriptExt = ".txt"
)

// Service writes and reads save files, one JSON object per line. Handles are
// file paths picked by a Chooser.
type Service struct {
	saves   Chooser
	scripts Chooser
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	for _, dir := range []string{cfg.Files.SavesDir, cfg.Files.BuilderDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return &Service{
		saves:   NewDirChooser(cfg.Files.SavesDir, SaveExt),
		scripts: NewDirChooser(cfg.Files.BuilderDir, ScriptExt),
	}, nil
}

// NewWithChoosers is used when handles come from somewhere else than the
// configured directories.
func NewWithChoosers(saves, scripts Chooser) *Service {
	return &Service{saves: saves, scripts: scripts}
}

func (s *Service) Saves() Chooser {
	return s.saves
}

func (s *Service) Scripts() Chooser {
	return s.scripts
}

func (s *Service) Serialize(handle string, payload Payload) error {
	file, err := os.OpenFile(handle, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create/open save file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	items := make([]jsonLineItem, 0, len(payload.Graph.Nodes)+len(payload.Graph.Edges)+len(payload.Layout))
	for _, n := range payload.Graph.Nodes {
		items = append(items, jsonLineItem{Kind: kindNode, ID: n.ID, Text: n.Text, Learned: n.Learned})
	}
	for _, e := range payload.Graph.Edges {
		items = append(items, jsonLineItem{Kind: kindEdge, From: e.From, To: e.To})
	}
	for _, id := range pie.Sort(pie.Keys(payload.Layout)) {
		pos := payload.Layout[id]
		items = append(items, jsonLineItem{Kind: kindPosition, ID: id, X: pos.X, Y: pos.Y})
	}

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", item.Kind, err)
		}
		if _, err = writer.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", item.Kind, err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	slog.Info("Saved graph",
		"path", handle,
		"nodes", len(payload.Graph.Nodes),
		"edges", len(payload.Graph.Edges))

	return nil
}

func (s *Service) Deserialize(handle string) (Payload, error) {
	file, err := os.Open(handle)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to open save file: %w", err)
	}
	defer file.Close()

	payload := Payload{Layout: make(map[int]geom.Point)}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item jsonLineItem
		if err = json.Unmarshal([]byte(line), &item); err != nil {
			return Payload{}, fmt.Errorf("failed to parse JSON line: %w", err)
		}

		switch item.Kind {
		case kindNode:
			payload.Graph.Nodes = append(payload.Graph.Nodes, graph.SnapshotNode{
				ID:      item.ID,
				Text:    item.Text,
				Learned: item.Learned,
			})
		case kindEdge:
			payload.Graph.Edges = append(payload.Graph.Edges, graph.Edge{From: item.From, To: item.To})
		case kindPosition:
			payload.Layout[item.ID] = geom.Pt(item.X, item.Y)
		default:
			return Payload{}, fmt.Errorf("unknown line kind %q", item.Kind)
		}
	}

	if err = scanner.Err(); err != nil {
		return Payload{}, fmt.Errorf("error reading save file: %w", err)
	}

	slog.Info("Loaded graph",
		"path", handle,
		"nodes", len(payload.Graph.Nodes),
		"edges", len(payload.Graph.Edges))

	return payload, nil
}

// ImportScript feeds a builder script file into g.
func (s *Service) ImportScript(handle string, g *graph.Graph) error {
	file, err := os.Open(handle)
	if err != nil {
		return fmt.Errorf("failed to open builder script: %w", err)
	}
	defer file.Close()

	if err = g.ImportScript(file); err != nil {
		return fmt.Errorf("import %s: %w", handle, err)
	}

	slog.Info("Imported builder script", "path", handle, "nodes", g.Len())

	return nil
}
