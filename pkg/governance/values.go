package governance

import (
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Normalize converts decoded ABI values into JSON friendly values.
// Integers become decimal strings, addresses checksummed hex and bytes 0x hex.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *big.Int:
		if t == nil {
			return "0"
		}
		return t.String()
	case common.Address:
		return t.Hex()
	case common.Hash:
		return t.Hex()
	case []byte:
		return hexutil.Encode(t)
	case string, bool:
		return t
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return toBig(t).String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		// fixed size byte arrays (bytes32, ...)
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}

		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	}

	return v
}

func toBig(v any) *big.Int {
	switch t := v.(type) {
	case uint8:
		return new(big.Int).SetUint64(uint64(t))
	case uint16:
		return new(big.Int).SetUint64(uint64(t))
	case uint32:
		return new(big.Int).SetUint64(uint64(t))
	case uint64:
		return new(big.Int).SetUint64(t)
	case int8:
		return big.NewInt(int64(t))
	case int16:
		return big.NewInt(int64(t))
	case int32:
		return big.NewInt(int64(t))
	case int64:
		return big.NewInt(t)
	}
	return new(big.Int)
}
