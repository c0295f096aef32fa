package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dnawave/dnawave/pkg/client"
)

var (
	socketPath = flag.String("socket", "/tmp/dnawaved.sock", "Unix socket path")
	command    = flag.String("cmd", "", "Command to send (e.g., 'STATUS', 'DECODE:song.wav')")
)

func main() {
	flag.Parse()

	if *socketPath == "" {
		fmt.Fprintf(os.Stderr, "Socket path is required\n")
		os.Exit(1)
	}

	// If no command specified, show interactive help
	if *command == "" {
		if len(flag.Args()) > 0 {
			*command = strings.Join(flag.Args(), " ")
		} else {
			showHelp()
			return
		}
	}

	// Create socket client
	client := client.NewSocketClient(*socketPath)

	// Send command
	response, err := client.SendCommand(*command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Print response
	fmt.Printf("%s\n", response.String())
}

func showHelp() {
	fmt.Println("dnawavectl - dnawave Daemon Control Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] <command>\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -socket <path>    Unix socket path (default: /tmp/dnawaved.sock)")
	fmt.Println("  -cmd <command>    Command to send")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  STATUS                        Get daemon status")
	fmt.Println("  ENCODE:<out.wav> <sequence>   Encode a DNA sequence (or sequence file)")
	fmt.Println("  DECODE:<audio.wav>            Decode a recording back to DNA")
	fmt.Println("  JOBS                          Get recent job history")
	fmt.Println("  JOBS:10                       Get last 10 jobs")
	fmt.Println("  JOBS:encode                   Get recent encode jobs")
	fmt.Println("  PING                          Test connection")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s STATUS\n", os.Args[0])
	fmt.Printf("  %s 'ENCODE:output/song.wav ATGCATGC'\n", os.Args[0])
	fmt.Printf("  %s 'DECODE:output/song.wav'\n", os.Args[0])
	fmt.Printf("  echo 'STATUS' | nc -U /tmp/dnawaved.sock\n")
}
