// Command earlygame builds a dataset of early-game features from a player's
// ranked match history and reports how often early leads turn into wins.
package main

func main() {
	Execute()
}
