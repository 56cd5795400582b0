package ee

// Expression is the REST wire form of a computation graph. Values holds
// every node once, keyed by id, and Result names the root node.
type Expression struct {
	Result string               `json:"result"`
	Values map[string]ValueNode `json:"values"`
}

// ValueNode is one node of an Expression. Exactly one field is set.
type ValueNode struct {
	// ConstantValue is any JSON value. A zero number is still sent, since
	// omitempty only drops a nil interface.
	ConstantValue any `json:"constantValue,omitempty"`

	// ValueReference is the id of another node in the same Expression.
	ValueReference string `json:"valueReference,omitempty"`

	FunctionInvocationValue *FunctionInvocation `json:"functionInvocationValue,omitempty"`

	// NullValue is "NULL_VALUE" for an explicit null.
	NullValue string `json:"nullValue,omitempty"`
}

// FunctionInvocation calls a platform function by name.
type FunctionInvocation struct {
	FunctionName string               `json:"functionName"`
	Arguments    map[string]ValueNode `json:"arguments,omitempty"`
}

// nullValue is the NullValue marker.
const nullValue = "NULL_VALUE"
