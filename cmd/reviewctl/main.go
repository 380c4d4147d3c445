package main

import "github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/cmd/reviewctl/cmd"

func main() {
	cmd.Execute()
}
