package ee

import (
	"errors"
	"fmt"
	"strconv"
)

// Encode serializes the computation graph rooted at img into the REST
// Expression format.
//
// Invocations are numbered in post-order, so an argument always has a lower
// id than its consumer and Result names the highest id.
func Encode(img *Image) (*Expression, error) {
	if img == nil {
		return nil, errors.New("ee: cannot encode nil image")
	}
	e := &encoder{
		ids:    make(map[*Image]string),
		values: make(map[string]ValueNode),
	}
	root, err := e.invocation(img)
	if err != nil {
		return nil, err
	}
	return &Expression{Result: root, Values: e.values}, nil
}

type encoder struct {
	ids    map[*Image]string
	values map[string]ValueNode
}

func (e *encoder) invocation(img *Image) (string, error) {
	if id, ok := e.ids[img]; ok {
		return id, nil
	}
	args := make(map[string]ValueNode, len(img.args))
	for _, name := range img.ArgNames() {
		node, err := e.value(img.args[name])
		if err != nil {
			return "", fmt.Errorf("ee: %s argument %q: %w", img.function, name, err)
		}
		args[name] = node
	}
	id := strconv.Itoa(len(e.values))
	e.ids[img] = id
	e.values[id] = ValueNode{
		FunctionInvocationValue: &FunctionInvocation{
			FunctionName: img.function,
			Arguments:    args,
		},
	}
	return id, nil
}

func (e *encoder) value(v any) (ValueNode, error) {
	switch x := v.(type) {
	case nil:
		return ValueNode{NullValue: nullValue}, nil
	case *Image:
		if x == nil {
			return ValueNode{NullValue: nullValue}, nil
		}
		id, err := e.invocation(x)
		if err != nil {
			return ValueNode{}, err
		}
		return ValueNode{ValueReference: id}, nil
	case string, bool, int, float64, []string, []float64:
		return ValueNode{ConstantValue: x}, nil
	default:
		return ValueNode{}, fmt.Errorf("unsupported argument type %T", v)
	}
}
