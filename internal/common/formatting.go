package common

// ShortHex keeps the 0x prefix, the first and the last n hex digits of s, e.g. 0xe7f1...0512
func ShortHex(s string, n int) string {
	prefix := ""
	if len(s) >= 2 && s[:2] == "0x" {
		prefix, s = "0x", s[2:]
	}

	if n <= 0 || len(s) <= n*2 {
		return prefix + s
	}

	return prefix + s[:n] + "..." + s[len(s)-n:]
}
