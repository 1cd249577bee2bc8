package main

import "github.com/thirdweb-dev/blob-indexer/cmd"

func main() {
	cmd.Execute()
}
