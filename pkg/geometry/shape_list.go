package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// ShapeList is the scene aggregate: an ordered set of shapes searched linearly.
// Add and Clear must not be called while a render is reading the list.
type ShapeList struct {
	shapes []Shape
}

// NewShapeList creates a list holding the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	l := &ShapeList{}
	for _, s := range shapes {
		l.Add(s)
	}
	return l
}

// Add appends a shape; nil shapes are ignored
func (l *ShapeList) Add(shape Shape) {
	if shape == nil {
		return
	}
	l.shapes = append(l.shapes, shape)
}

// Clear removes every shape
func (l *ShapeList) Clear() {
	l.shapes = nil
}

// Len returns the number of shapes
func (l *ShapeList) Len() int {
	return len(l.shapes)
}

// Shapes returns a copy of the shapes in insertion order
func (l *ShapeList) Shapes() []Shape {
	out := make([]Shape, len(l.shapes))
	copy(out, l.shapes)
	return out
}

// Hit returns the nearest intersection among all shapes.
// Each shape is tested against the interval shrunk to the closest hit so far;
// on an exact tie the earlier shape wins.
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
