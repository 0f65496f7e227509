package strata

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

type DescriptorInfo struct {
	Service        string
	Implementation string
	Lifetime       string
	Dependencies   []string
	Dependents     []string
	Built          bool
}

// Info describes every descriptor. Built is only tracked for singletons.
func (c *Container) Info() []DescriptorInfo {
	descriptors := c.Descriptors()
	infos := make([]DescriptorInfo, 0, len(descriptors))

	for _, d := range descriptors {
		key := reflectx.Name(d.serviceType)
		_, built := c.singletons.Load(d.id)

		infos = append(
			infos, DescriptorInfo{
				Service:        key,
				Implementation: reflectx.Name(d.implementationType),
				Lifetime:       d.depth.String(),
				Dependencies:   c.graph.GetDependencies(key),
				Dependents:     c.graph.GetDependents(key),
				Built:          built,
			},
		)
	}

	return infos
}

func (c *Container) PrintDescriptors() {
	c.FprintDescriptors(os.Stdout)
}

func (c *Container) FprintDescriptors(w io.Writer) {
	infos := c.Info()
	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Service", "Implementation", "Lifetime", "Dependencies", "Built"})

	for _, info := range infos {
		built := "○"
		if info.Built {
			built = "●"
		}
		tw.AppendRow(table.Row{
			info.Service,
			info.Implementation,
			info.Lifetime,
			strings.Join(info.Dependencies, ", "),
			built,
		})
	}

	tw.Render()
}

func (c *Container) SprintDescriptors() string {
	var sb strings.Builder
	c.FprintDescriptors(&sb)
	return sb.String()
}

type ScopeInfo struct {
	Depth    int
	Root     bool
	Cached   int
	Pending  []string // services awaiting disposal, async-disposable first
	Disposed bool
	Children []ScopeInfo
}

// Tree snapshots the subtree rooted at s.
func (s *Scope) Tree() ScopeInfo {
	info := ScopeInfo{
		Depth:    s.depth,
		Root:     s.root,
		Cached:   s.instances.Len(),
		Disposed: s.disposed.Load(),
	}

	for _, e := range slices.Concat(s.asyncDisposables.Snapshot(), s.disposables.Snapshot()) {
		info.Pending = append(info.Pending, reflectx.Name(e.descriptor.serviceType))
	}

	for _, child := range s.Children() {
		info.Children = append(info.Children, child.Tree())
	}
	return info
}

func (s *Scope) PrintTree() {
	s.FprintTree(os.Stdout)
}

func (s *Scope) FprintTree(w io.Writer) {
	lw := list.NewWriter()
	lw.SetOutputMirror(w)
	lw.SetStyle(list.StyleConnectedRounded)
	appendScope(lw, s.Tree())
	lw.Render()
}

func (s *Scope) SprintTree() string {
	var sb strings.Builder
	s.FprintTree(&sb)
	return sb.String()
}

func appendScope(lw list.Writer, info ScopeInfo) {
	label := fmt.Sprintf("depth %d: %d cached, %d pending disposal", info.Depth, info.Cached, len(info.Pending))
	if info.Root {
		label = "root " + label
	}
	if info.Disposed {
		label += " (disposed)"
	}
	lw.AppendItem(label)

	if len(info.Children) == 0 {
		return
	}
	lw.Indent()
	for _, child := range info.Children {
		appendScope(lw, child)
	}
	lw.UnIndent()
}
