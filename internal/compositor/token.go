package compositor

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"

	"go2tv.app/displaycap/internal/convert"
)

func generateToken() dbus.Variant {
	str := strings.Builder{}
	str.WriteString("displaycap")
	a, _ := rand.Int(rand.Reader, big.NewInt(1<<16))
	str.WriteString(strconv.FormatUint(a.Uint64(), 16))
	return convert.FromString(str.String())
}
