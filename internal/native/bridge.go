package native

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/evaluator"
)

// BridgeModule returns the test bridge: a greeting, content hashing and
// id generation, used to exercise the native boundary end to end.
func BridgeModule() *Module {
	return &Module{
		Name: config.BridgeModule,
		Builtins: map[string]*Builtin{
			"greet": {Name: "greet", Arity: 1, Fn: bridgeGreet},
			"hash":  {Name: "hash", Arity: 1, Fn: bridgeHash},
			"uuid":  {Name: "uuid", Arity: 0, Fn: bridgeUUID},
		},
	}
}

func bridgeGreet(args ...evaluator.Object) evaluator.Object {
	name, err := argString("greet", args, 0)
	if err != nil {
		return err
	}
	return &evaluator.String{Value: "Hello, " + name + "!"}
}

// bridgeHash returns the hex SHA-256 of a String or byte Array.
func bridgeHash(args ...evaluator.Object) evaluator.Object {
	var data []byte
	switch v := args[0].(type) {
	case *evaluator.String:
		data = []byte(v.Value)
	case *evaluator.Array:
		b, err := evaluator.ToBytes(v)
		if err != nil {
			return evaluator.NewError("hash: %s", err.Error())
		}
		data = b
	default:
		return evaluator.NewError("hash: argument 1 must be String or Array, got %s", evaluator.KindName(args[0]))
	}
	sum := sha256.Sum256(data)
	return &evaluator.String{Value: hex.EncodeToString(sum[:])}
}

func bridgeUUID(args ...evaluator.Object) evaluator.Object {
	return &evaluator.String{Value: uuid.NewString()}
}
