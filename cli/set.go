package main

import (
	"github.com/BertoldVdb/ambx-tools/ambxhal"
)

type SetCmd struct {
	Zone  ambxhal.Zone  `arg:"" name:"zone" help:"Zone: left, right, wall-left, wall-center, wall-right or all." type:"zone"`
	Color ambxhal.Color `arg:"" name:"color" help:"Color as RRGGBB hex." type:"color"`
}

func (s *SetCmd) Run(c *Context) error {
	return c.controller.SetZoneColor(s.Zone, s.Color)
}

type SetAllCmd struct {
	Color ambxhal.Color `arg:"" name:"color" help:"Color as RRGGBB hex." type:"color"`
}

func (s *SetAllCmd) Run(c *Context) error {
	return c.controller.SetAllZonesColor(s.Color)
}

type OffCmd struct {
}

func (o *OffCmd) Run(c *Context) error {
	return c.controller.SetAllZonesColor(ambxhal.Color{})
}
