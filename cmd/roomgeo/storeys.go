package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/pkg/export"
)

var (
	roomsStorey int
	roomsJSON   bool
)

var storeysCmd = &cobra.Command{
	Use:   "storeys",
	Short: "List the storey numbers in the room database",
	Args:  cobra.NoArgs,
	RunE:  runStoreys,
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the stored rooms of one storey",
	Args:  cobra.NoArgs,
	RunE:  runRooms,
}

func init() {
	rootCmd.AddCommand(storeysCmd)
	rootCmd.AddCommand(roomsCmd)

	roomsCmd.Flags().IntVarP(&roomsStorey, "storey", "s", 0, "storey number")
	roomsCmd.Flags().BoolVar(&roomsJSON, "json", false, "print the full room documents as JSON")
	_ = roomsCmd.MarkFlagRequired("storey")
}

func runStoreys(cmd *cobra.Command, args []string) error {
	s, err := newApp().OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	numbers, err := s.Storeys()
	if err != nil {
		return err
	}
	for _, n := range numbers {
		fmt.Println(n)
	}
	return nil
}

func runRooms(cmd *cobra.Command, args []string) error {
	s, err := newApp().OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rooms, err := s.RoomsByStorey(roomsStorey)
	if err != nil {
		return err
	}
	if roomsJSON {
		return export.WriteJSON(os.Stdout, rooms)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTOREY\tLENGTH\tWIDTH\tHEIGHT\tAREA\tVOLUME\tELEMENTS")
	for _, r := range rooms {
		d := r.Dimensions
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
			r.ID, r.Name, r.Storey, d.Length, d.Width, d.Height, d.Area, d.Volume, len(r.Elements))
	}
	return w.Flush()
}
