package main

import (
	"github.com/san-kum/rve/internal/editor"
	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/metrics"
	"github.com/san-kum/rve/internal/park"
	"github.com/san-kum/rve/internal/picker"
	"github.com/san-kum/rve/internal/selector"
	"github.com/san-kum/rve/internal/session"
)

// state is shared by every editor session of the process.
var state = &session.State{}

type app struct {
	park    *park.Park
	session *session.Session
	picker  *picker.Tool
}

func newApp(p *park.Park, log logging.Logger, collector *metrics.Collector) *app {
	selOpts := []selector.Option{selector.WithLogger(log)}
	edOpts := []editor.Option{editor.WithLogger(log)}
	if collector != nil {
		selOpts = append(selOpts, selector.WithRecorder(collector))
		edOpts = append(edOpts, editor.WithRecorder(collector))
	}

	sel := selector.New(p, selOpts...)
	ed := editor.New(sel, p, edOpts...)
	tool := picker.NewTool(log)
	return &app{
		park:    p,
		session: session.New(state, sel, ed, tool, log),
		picker:  tool,
	}
}
