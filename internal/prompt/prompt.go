// Package prompt turns structured placement preferences into the
// natural-language instruction the generation model consumes. The
// provider has no structured parameters for room scale, lighting or
// camera placement, so all of it is encoded as English text here.
package prompt

import (
	"fmt"
	"strings"
)

// Options holds the user's placement preferences. The zero value
// produces a sensible default prompt (living room, well-lit, generic
// artwork size).
type Options struct {
	ArtworkType     string `json:"artworkType"`
	Width           string `json:"width"`
	Height          string `json:"height"`
	Depth           string `json:"depth"`
	Unit            string `json:"unit"`
	Environment     string `json:"environment"`
	Lighting        string `json:"lighting"`
	ViewingAngle    string `json:"viewingAngle"`
	IncludePedestal bool   `json:"includePedestal"`
	CustomPrompt    string `json:"customPrompt"`
	AspectRatio     string `json:"aspectRatio"`
}

// Room dimensions keep the generated space at a believable scale
// relative to the artwork.
var roomSpecs = map[string]string{
	"living-room":      "room of 3 meter high and 5 by 4 meters wide",
	"office":           "office space of 2.8 meter high and 4 by 3 meters wide",
	"gallery":          "contemporary art gallery of 3.5 meter high and 8 by 6 meters wide",
	"concrete-gallery": "concrete gallery space of 4 meter high and 10 by 8 meters wide",
	"bedroom":          "bedroom of 2.8 meter high and 4 by 3.5 meters wide",
	"restaurant":       "restaurant space of 3 meter high and 6 by 5 meters wide",
	"hotel-lobby":      "hotel lobby of 4 meter high and 8 by 6 meters wide",
	"custom":           "interior space of 3 meter high and 5 by 4 meters wide",
}

var lightingDescriptions = map[string]string{
	"well-lit":           "bright, well-lit with even lighting",
	"soft-ambient":       "soft ambient lighting with warm tones",
	"dramatic-spotlight": "dramatic spotlight with focused lighting and shadows",
}

// Surfaces a sculpture sits on when no pedestal is requested.
var directPlacements = map[string]string{
	"living-room":      "on a coffee table, side table, or floor",
	"office":           "on a desk, shelf, or cabinet",
	"gallery":          "directly on the floor with proper spacing",
	"concrete-gallery": "directly on the concrete floor",
	"bedroom":          "on a nightstand, dresser, or shelf",
	"restaurant":       "on a table, bar, or shelf",
	"hotel-lobby":      "on a reception desk, side table, or floor",
	"custom":           "on an appropriate surface",
}

var cameraAngles = map[string]string{
	"front": "Camera positioned directly in front of the artwork",
	"angle": "Camera positioned at a 30-degree side angle to the artwork",
	"side":  "Camera positioned at a 90-degree side angle to the artwork",
}

// Build synthesizes the generation prompt. Pure and deterministic:
// the same options always yield the same string.
func Build(o Options) string {
	if o.Environment == "custom" && strings.TrimSpace(o.CustomPrompt) != "" {
		return o.CustomPrompt
	}

	env := o.Environment
	if env == "" {
		env = "living-room"
	}
	// TODO: an unknown environment keeps its literal label in the prompt
	// while borrowing the living-room dimensions below; the two fallbacks
	// should agree.
	room, ok := roomSpecs[env]
	if !ok {
		room = roomSpecs["living-room"]
	}

	label := strings.ReplaceAll(env, "-", " ")
	spaceLabel := label
	if env == "gallery" {
		spaceLabel = "art gallery"
	}
	dimPrefix := "Space"
	if env == "gallery" {
		dimPrefix = "Gallery"
	}
	walls := "appropriate interior design"
	if strings.Contains(env, "gallery") {
		walls = "white walls and polished concrete floors"
	}

	camera, ok := cameraAngles[o.ViewingAngle]
	if !ok {
		camera = cameraAngles["front"]
	}
	lighting, ok := lightingDescriptions[o.Lighting]
	if !ok {
		lighting = lightingDescriptions["well-lit"]
	}
	size := sizeDescription(o)

	var b strings.Builder
	if o.ArtworkType == "sculpture" {
		placement := placementDescription(o, env)
		if placement == "" {
			placement = "on a pedestal"
		}
		fmt.Fprintf(&b, "Professional gallery photography: A single contemporary %s %s in a spacious modern %s. ", size, placement, spaceLabel)
		fmt.Fprintf(&b, "%s, showing both the artwork and the %s space perspective. ", camera, label)
		fmt.Fprintf(&b, "%s dimensions: %s with %s. ", dimPrefix, room, walls)
		b.WriteString("The sculpture positioned with proper spacing (minimum 2.5m from walls and other objects). ")
		fmt.Fprintf(&b, "Professional %s creating subtle shadows that enhance the sculpture's form. ", lighting)
		b.WriteString("Sharp focus on artwork maintaining original materials, textures, and colors. ")
		b.WriteString("Clean, minimalist composition with no other artworks visible. ")
		b.WriteString("Shot with professional camera equipment, architectural photography style, wide-angle lens to capture space depth while keeping sculpture accurately scaled to human proportions.")
	} else {
		fmt.Fprintf(&b, "Professional gallery photography: A single %s mounted on a wall in a spacious modern %s. ", size, spaceLabel)
		fmt.Fprintf(&b, "%s, showing both the painting and the %s space perspective. ", camera, label)
		fmt.Fprintf(&b, "%s dimensions: %s with %s. ", dimPrefix, room, walls)
		b.WriteString("The painting should appear proportionally correct at human eye level (1.5m from floor), with standard spacing (minimum 2m from corners). ")
		fmt.Fprintf(&b, "Professional %s with even, shadow-free illumination. ", lighting)
		b.WriteString("Sharp focus on artwork maintaining original colors and textures. ")
		b.WriteString("Clean, minimalist composition with no other artworks visible. ")
		b.WriteString("Shot with professional camera equipment, architectural photography style, wide-angle lens to capture space depth while keeping artwork accurately scaled.")
	}
	return b.String()
}

// sizeDescription renders the artwork dimensions as prose. Without
// both width and height it falls back to a generic phrase keyed on
// the artwork type.
func sizeDescription(o Options) string {
	if o.Width == "" || o.Height == "" {
		if o.ArtworkType == "sculpture" {
			return "small sculpture of 25 centimeters high"
		}
		return "medium-sized artwork"
	}

	unit := "centimeters"
	unitShort := "cm"
	if o.Unit == "inches" {
		unit = "inches"
		unitShort = "inch"
	}

	if o.ArtworkType == "sculpture" {
		depthText := ""
		if o.Depth != "" {
			depthText = fmt.Sprintf(" by %s %s deep", o.Depth, unitShort)
		}
		return fmt.Sprintf("sculpture of %s %s wide by %s %s high%s", o.Width, unitShort, o.Height, unitShort, depthText)
	}
	return fmt.Sprintf("painting of %s by %s %s", o.Width, o.Height, unit)
}

// placementDescription is empty for paintings; sculptures sit on a
// pedestal ("of 50 cm" only in gallery spaces) or on an
// environment-specific surface.
func placementDescription(o Options, env string) string {
	if o.ArtworkType != "sculpture" {
		return ""
	}
	if o.IncludePedestal {
		if env == "gallery" || env == "concrete-gallery" {
			return "on a pedestal of 50 cm"
		}
		return "on a pedestal"
	}
	if p, ok := directPlacements[env]; ok {
		return p
	}
	return "on an appropriate surface"
}
