package main

import "github.com/frahmantamala/onboarding-portal/cmd"

func main() {
	cmd.Execute()
}
