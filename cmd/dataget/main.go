package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"
)

// dataget fetches the block and biome reference tables from the PrismarineJS
// minecraft-data repository and cross-checks them against the numeric IDs the
// terrain generator places, so an ID drift between game versions is caught
// before it ships as silent garbage terrain.
func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of data tables")
		ver      = flag.String("version", "1.8", "game version of data tables")
		out      = flag.String("o", "./gamedata", "output dir path")
		verify   = flag.Bool("verify", true, "check downloaded block table against generator IDs")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *platform == "" {
		panic("platform required")
	}

	if *ver == "" {
		panic("version required")
	}

	path := fmt.Sprintf("%s/%s-%s", *out, *platform, *ver)

	if err := os.RemoveAll(path); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading data tables %s", path)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.8
	url := fmt.Sprintf("git::%s//data/%s/%s", *base, *platform, *ver)

	if err := get.Get(path, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading data tables %s", path)

	if !*verify {
		return
	}
	if err := verifyBlockTable(filepath.Join(path, "blocks.json")); err != nil {
		log.Default().Printf("block table verification failed: %v", err)
		os.Exit(1)
	}
	log.Default().Printf("block table matches generator IDs")
}

// generatorBlocks mirrors the IDs hard-coded in pkg/world/gen/blocks.go with
// the names the reference tables use for them.
var generatorBlocks = map[int]string{
	1:  "stone",
	2:  "grass",
	3:  "dirt",
	7:  "bedrock",
	9:  "water",
	11: "lava",
	12: "sand",
	13: "gravel",
	14: "gold_ore",
	15: "iron_ore",
	16: "coal_ore",
	17: "log",
	18: "leaves",
	21: "lapis_ore",
	24: "sandstone",
	31: "tallgrass",
	32: "deadbush",
	38: "red_flower",
	56: "diamond_ore",
	73: "redstone_ore",
	81: "cactus",
}

// verifyBlockTable checks that every block ID the generator places exists in
// the downloaded table under the expected name.
func verifyBlockTable(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var table []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &table); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	names := make(map[int]string, len(table))
	for _, b := range table {
		names[b.ID] = b.Name
	}

	for id, want := range generatorBlocks {
		got, ok := names[id]
		if !ok {
			return fmt.Errorf("block id %d (%s) missing from %s", id, want, path)
		}
		if got != want {
			return fmt.Errorf("block id %d is %q in %s, generator expects %q", id, got, path, want)
		}
	}
	return nil
}
