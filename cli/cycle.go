package main

import (
	"fmt"
	"time"

	"github.com/BertoldVdb/ambx-tools/ambxhal"
	"github.com/inancgumus/screen"
)

type CycleCmd struct {
	Steps    int `optional:"" help:"Number of steps to run, 0 runs forever." default:"50"`
	Interval int `optional:"" help:"Delay between steps in milliseconds." default:"200"`
}

var cyclePalette = []ambxhal.Color{
	{R: 255},
	{R: 255, G: 128},
	{R: 255, G: 255},
	{G: 255},
	{G: 255, B: 255},
	{B: 255},
	{R: 255, B: 255},
}

func (l *CycleCmd) Run(c *Context) error {
	zones := ambxhal.Zones()

	for step := 0; l.Steps == 0 || step < l.Steps; step++ {
		screen.Clear()
		screen.MoveTopLeft()
		fmt.Printf("Step %d\n", step)

		for i, zone := range zones {
			color := cyclePalette[(step+i)%len(cyclePalette)]

			if err := c.controller.SetZoneColor(zone, color); err != nil {
				return err
			}

			fmt.Printf("%-12s #%02X%02X%02X\n", zone.String(), color.R, color.G, color.B)
		}

		time.Sleep(time.Duration(l.Interval) * time.Millisecond)
	}

	return c.controller.SetAllZonesColor(ambxhal.Color{})
}
