package main

import "notiyou/cmd/missionctl/root"

func main() {
	root.Execute()
}
