package model

import (
	"errors"
	"fmt"

	"github.com/portfwd/upnp-go/pkg/description"
)

// Action and argument errors.
var (
	ErrInvalidDirection = errors.New("invalid argument direction")
	ErrInvalidRetval    = errors.New("retval marker on input argument")
	ErrMultipleRetval   = errors.New("multiple retval arguments")
)

// Direction classifies an argument as input or output.
type Direction string

const (
	// DirectionIn marks an argument sent with the request.
	DirectionIn Direction = "in"
	// DirectionOut marks an argument returned in the response.
	DirectionOut Direction = "out"
)

// Argument is one declared argument of an action. It is immutable.
type Argument struct {
	name                 string
	direction            Direction
	retval               bool
	relatedStateVariable string
}

// Name returns the argument name.
func (a *Argument) Name() string { return a.name }

// Direction returns the argument direction.
func (a *Argument) Direction() Direction { return a.direction }

// IsRetval reports whether the argument is marked as the action's return value.
func (a *Argument) IsRetval() bool { return a.retval }

// RelatedStateVariable returns the name of the state variable defining
// the argument's UPnP data type. The name is an opaque passthrough;
// type resolution is out of scope for this control point.
func (a *Argument) RelatedStateVariable() string { return a.relatedStateVariable }

// Action is one callable action of a service with its ordered,
// direction-tagged arguments. It is immutable after construction.
type Action struct {
	name string

	// arguments in declaration order; the in/out partitions are derived
	// once at construction and preserve that order.
	arguments []*Argument
	argsIn    []*Argument
	argsOut   []*Argument
}

// newAction builds an Action from its SCPD declaration. Every argument's
// direction must be exactly "in" or "out"; anything else aborts
// construction, because invocation correctness depends on a complete
// partition. A retval marker on an input argument is rejected, as is
// more than one retval argument.
func newAction(desc description.ActionDesc) (*Action, error) {
	if desc.Name == "" {
		return nil, fmt.Errorf("%w: action without name", description.ErrMalformedDescription)
	}

	action := &Action{name: desc.Name}

	retvalSeen := false
	for i := range desc.Arguments {
		argDesc := &desc.Arguments[i]
		if argDesc.Name == "" || argDesc.Direction == "" || argDesc.RelatedStateVariable == "" {
			return nil, fmt.Errorf("%w: action %s: incomplete argument declaration",
				description.ErrMalformedDescription, desc.Name)
		}

		arg := &Argument{
			name:                 argDesc.Name,
			direction:            Direction(argDesc.Direction),
			retval:               argDesc.IsRetval(),
			relatedStateVariable: argDesc.RelatedStateVariable,
		}

		switch arg.direction {
		case DirectionIn:
			if arg.retval {
				return nil, fmt.Errorf("action %s, argument %s: %w",
					desc.Name, arg.name, ErrInvalidRetval)
			}
			action.argsIn = append(action.argsIn, arg)
		case DirectionOut:
			if arg.retval {
				if retvalSeen {
					return nil, fmt.Errorf("action %s, argument %s: %w",
						desc.Name, arg.name, ErrMultipleRetval)
				}
				retvalSeen = true
			}
			action.argsOut = append(action.argsOut, arg)
		default:
			return nil, fmt.Errorf("action %s, argument %s: %w: %q",
				desc.Name, arg.name, ErrInvalidDirection, argDesc.Direction)
		}

		action.arguments = append(action.arguments, arg)
	}

	return action, nil
}

// Name returns the action name.
func (a *Action) Name() string { return a.name }

// Arguments returns all arguments in declaration order.
func (a *Action) Arguments() []*Argument {
	return append([]*Argument(nil), a.arguments...)
}

// InArguments returns the input arguments in declaration order.
func (a *Action) InArguments() []*Argument {
	return append([]*Argument(nil), a.argsIn...)
}

// OutArguments returns the output arguments in declaration order.
func (a *Action) OutArguments() []*Argument {
	return append([]*Argument(nil), a.argsOut...)
}

// ReturnValue returns the output argument marked as the return value,
// or nil if the action declares none.
func (a *Action) ReturnValue() *Argument {
	for _, arg := range a.argsOut {
		if arg.retval {
			return arg
		}
	}
	return nil
}
