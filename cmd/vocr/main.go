package main

import "github.com/kj-9/video-ocr/internal/cli"

func main() {
	cli.Execute()
}
