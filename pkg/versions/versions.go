// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package versions

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/wixtoolset/wix-sub033/pkg/extcache"
)

// Version is one version of an extension, cached in some scopes and/or
// offered by a package source.
type Version struct {
	Version *semver.Version `json:"version" yaml:"version"`
	Scopes  []string        `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	Damaged bool            `json:"damaged,omitempty" yaml:"damaged,omitempty"`
	Remote  bool            `json:"remote,omitempty" yaml:"remote,omitempty"`
}

func (v *Version) Cached() bool {
	return len(v.Scopes) > 0
}

type Versions []*Version

type Extension struct {
	Id       string   `json:"id" yaml:"id"`
	Versions Versions `json:"versions" yaml:"versions"`
}

type Extensions []*Extension

// New groups cached extensions and the remote versions of each id into one
// sorted entry per extension.
func New(cached []extcache.CachedExtension, remote map[string][]*semver.Version) Extensions {
	byId := map[string]map[string]*Version{}
	add := func(id string, e *Version) {
		id = strings.ToLower(id)
		m, ok := byId[id]
		if !ok {
			m = map[string]*Version{}
			byId[id] = m
		}
		key := e.Version.String()
		existing, ok := m[key]
		if !ok {
			m[key] = e
			return
		}
		existing.Scopes = append(existing.Scopes, e.Scopes...)
		existing.Damaged = existing.Damaged || e.Damaged
		existing.Remote = existing.Remote || e.Remote
	}

	for _, c := range cached {
		v, err := semver.NewVersion(c.Version)
		if err != nil {
			continue
		}
		add(c.Id, &Version{Version: v, Scopes: []string{c.Scope.String()}, Damaged: c.Damaged})
	}
	for id, vs := range remote {
		for _, v := range vs {
			add(id, &Version{Version: v, Remote: true})
		}
	}

	exts := Extensions(lo.MapToSlice(byId, func(id string, m map[string]*Version) *Extension {
		vs := Versions(lo.Values(m))
		vs.Sort()
		return &Extension{Id: id, Versions: vs}
	}))
	slices.SortFunc(exts, func(a, b *Extension) int { return strings.Compare(a.Id, b.Id) })
	return exts
}

// Sort by semantic version number
func (v Versions) Sort() {
	slices.SortFunc(v, func(a, b *Version) int {
		return a.Version.Compare(b.Version)
	})
}

// Latest is the greatest cached version that is not damaged.
func (v Versions) Latest() (*Version, bool) {
	usable := lo.Filter(v, func(e *Version, _ int) bool { return e.Cached() && !e.Damaged })
	if len(usable) == 0 {
		return nil, false
	}
	return lo.MaxBy(usable, func(a, b *Version) bool { return a.Version.GreaterThan(b.Version) }), true
}

func (e Extensions) Table() string {
	var rows [][]string
	for _, ext := range e {
		latest, _ := ext.Versions.Latest()
		for _, row := range ext.Versions {
			indicator := ""
			version := row.Version.Original()
			status := strings.Join(row.Scopes, ", ")

			switch {
			case row.Damaged:
				indicator = "!"
				status += " (damaged)"
				version = lipgloss.NewStyle().
					Foreground(lipgloss.Color("1")).
					Render(version)
			case row == latest:
				indicator = "*"
				version = lipgloss.NewStyle().
					Foreground(lipgloss.Color("2")).
					Bold(true).
					Render(version)
			case !row.Cached():
				status = "available"
				version = lipgloss.NewStyle().
					Faint(true).
					Italic(true).
					Render(version)
			}

			rows = append(rows, []string{indicator, ext.Id, version, status})
		}
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(rows...).
		String()
}
