package snake

import "github.com/hoshinonyaruko/snake-grid/structs"

// SetHeading returns the heading after a key press. A request on the same
// axis as current (including the same heading) is ignored, which stops the
// snake from turning straight back into its neck.
func SetHeading(current, requested structs.Heading) structs.Heading {
	if requested == structs.HeadingNone {
		return current
	}
	if current.Axis() == requested.Axis() {
		return current
	}
	return requested
}
