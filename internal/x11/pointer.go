package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// PointerState is one sample of the global pointer.
type PointerState struct {
	X, Y    int
	Button1 bool
}

// QueryPointer samples the pointer position relative to the root window.
func (c *Connection) QueryPointer() (PointerState, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return PointerState{}, err
	}
	return PointerState{
		X:       int(reply.RootX),
		Y:       int(reply.RootY),
		Button1: reply.Mask&xproto.KeyButMaskButton1 != 0,
	}, nil
}

// QueryKeymap returns the 256-bit pressed-key vector, one bit per keycode.
func (c *Connection) QueryKeymap() ([32]byte, error) {
	var keys [32]byte
	reply, err := xproto.QueryKeymap(c.XUtil.Conn()).Reply()
	if err != nil {
		return keys, err
	}
	copy(keys[:], reply.Keys)
	return keys, nil
}

// KeycodesFor resolves a keysym name ("Control_L") to every keycode that
// produces it on the current keyboard map.
func (c *Connection) KeycodesFor(keysym string) []xproto.Keycode {
	return keybind.StrToKeycodes(c.XUtil, keysym)
}
