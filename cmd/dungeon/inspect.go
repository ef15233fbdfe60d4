package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/milk9111/dungeon/levels"
)

var (
	titleStyle = color.Style{color.FgGreen, color.OpBold}
	roomStyle  = color.Style{color.FgCyan, color.OpBold}
	dimStyle   = color.Style{color.FgGray}
	warnStyle  = color.Style{color.FgYellow}
)

var inspectFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect [level]",
	Short: "Print the room graph of a level",
	Args:  cobra.MaximumNArgs(1),
	RunE:  inspectLevel,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "read a Tiled JSON map from disk instead of the embedded levels")
	rootCmd.AddCommand(inspectCmd)
}

func inspectLevel(_ *cobra.Command, args []string) error {
	var (
		g   *levels.Geometry
		err error
	)
	switch {
	case inspectFile != "":
		data, rerr := os.ReadFile(inspectFile)
		if rerr != nil {
			return rerr
		}
		g, err = levels.Parse(inspectFile, data)
	case len(args) == 1:
		g, err = levels.LoadLevelFromFS(args[0])
	default:
		titleStyle.Println("levels")
		for _, name := range levels.Names() {
			fmt.Println("  " + name)
		}
		return nil
	}
	if err != nil {
		return err
	}

	titleStyle.Printf("%s  ", g.Name)
	dimStyle.Printf("tiles %gx%g  terrain %dx%d\n", g.TileWidth, g.TileHeight, g.Terrain.Cols, g.Terrain.Rows)
	for _, rm := range g.Rooms {
		roomStyle.Printf("room %d", rm.ID)
		dimStyle.Printf("  %v", rm.Bounds)
		if !rm.HasEnemyLayer {
			dimStyle.Print("  (no enemy group)")
		}
		fmt.Println()
		for _, d := range rm.Doors {
			target := fmt.Sprintf("%d/%d", d.TargetRoomID, d.TargetDoorID)
			if d.TargetLevel != "" {
				target = d.TargetLevel + ":" + target
			}
			fmt.Printf("  door %-3d %-5s %-4s trap %-16s -> %s\n", d.ID, d.Direction, d.Type, d.Trap, target)
		}
		for _, s := range rm.Switches {
			fmt.Printf("  switch %-3d %s %v\n", s.ID, s.Action, s.TargetIDs)
		}
		for _, c := range rm.Chests {
			fmt.Printf("  chest %-3d %-9s on %s\n", c.ID, c.Contents, c.RevealTrigger)
		}
		for _, e := range rm.Enemies {
			fmt.Printf("  enemy %-3d %s\n", e.ID, e.Species)
		}
		if n := len(rm.Pots); n > 0 {
			fmt.Printf("  pots %d\n", n)
		}
	}
	for _, w := range g.Warnings {
		warnStyle.Println("warning: " + w.Error())
	}
	return nil
}
