package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/circuitlab/pkg/app"
	"github.com/decker502/circuitlab/pkg/scenes"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	lesson := flag.String("lesson", "", "start directly at the given lesson ID")
	flag.Parse()

	a, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Lesson:  *lesson,
	}, assetsFS)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ebiten.SetWindowSize(scenes.WindowWidth, scenes.WindowHeight)
	ebiten.SetWindowTitle("电路实验台")

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
