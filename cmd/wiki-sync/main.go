/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import "os"

func main() {
	if err := Execute(); err != nil {
		// already logged
		os.Exit(1)
	}
}
