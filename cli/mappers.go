package main

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/BertoldVdb/ambx-tools/ambxhal"
	"github.com/alecthomas/kong"
)

type zoneMapper struct {
}

var zoneNames = map[string]ambxhal.Zone{
	"left":        ambxhal.ZoneLeft,
	"right":       ambxhal.ZoneRight,
	"wall-left":   ambxhal.ZoneWallLeft,
	"wall-center": ambxhal.ZoneWallCenter,
	"wall-right":  ambxhal.ZoneWallRight,
	"all":         ambxhal.ZoneAll,
}

func (zoneMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("zone", &value)
	if err != nil {
		return err
	}

	zone, ok := zoneNames[strings.ToLower(value)]
	if !ok {
		return fmt.Errorf("Unknown zone %q", value)
	}

	target.SetUint(uint64(zone))
	return nil
}

type colorMapper struct {
}

func (colorMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := ctx.Scan.PopValueInto("color", &value)
	if err != nil {
		return err
	}

	value = strings.TrimPrefix(value, "#")
	if len(value) != 6 {
		return errors.New("Color must be 6 hex digits")
	}

	rgb, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return err
	}

	target.Set(reflect.ValueOf(ambxhal.Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
	}))
	return nil
}
