package models

import "fmt"

// PathType identifies one of the themed learning paths
type PathType string

const (
	PathDogBreeds   PathType = "dogBreeds"
	PathDogTraining PathType = "dogTraining"
	PathDogBehavior PathType = "dogBehavior"
	PathDogHealth   PathType = "dogHealth"
)

// AllPathTypes returns every learning path in display order
func AllPathTypes() []PathType {
	return []PathType{PathDogBreeds, PathDogTraining, PathDogBehavior, PathDogHealth}
}

// Valid reports whether p is a known learning path
func (p PathType) Valid() bool {
	switch p {
	case PathDogBreeds, PathDogTraining, PathDogBehavior, PathDogHealth:
		return true
	}
	return false
}

// DisplayName returns the kid-facing name for the path
func (p PathType) DisplayName() string {
	switch p {
	case PathDogBreeds:
		return "Dog Breeds"
	case PathDogTraining:
		return "Dog Training"
	case PathDogBehavior:
		return "Dog Behavior"
	case PathDogHealth:
		return "Dog Health"
	default:
		return string(p)
	}
}

// ParsePathType converts a stored path name to a PathType
func ParsePathType(s string) (PathType, error) {
	p := PathType(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown path type: %q", s)
	}
	return p, nil
}
