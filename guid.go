package acs

import "fmt"

// GUID is a raw 16-byte Windows GUID as stored in an ACS file.
type GUID [16]byte

// String renders the GUID in the standard mixed-endian Windows text form
// {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}: the first three fields are
// little-endian, the remaining eight bytes are printed in storage order.
func (g GUID) String() string {
	return fmt.Sprintf(
		"{%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g[3], g[2], g[1], g[0],
		g[5], g[4],
		g[7], g[6],
		g[8], g[9],
		g[10], g[11], g[12], g[13], g[14], g[15],
	)
}
