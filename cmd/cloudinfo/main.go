// cloudinfo prints what the viewer would build from point-cloud files,
// without opening a window.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "header":
		err = cmdHeader(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cloudinfo - point-cloud file inspector

Usage:
  cloudinfo <command> [files]

Commands:
  info <file>...        Show loader, sample count, triangles and bounds
  header <file.pcd>...  Show the PCD header fields

Examples:
  cloudinfo info depth.png scan.csv
  cloudinfo header room.pcd`)
}
