package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-workshop/internal/engine/drops"
	"github.com/KirkDiggler/rpg-workshop/internal/entities"
)

// storedMonster keeps every field as stored so a rewrite only touches drop_table
type storedMonster map[string]json.RawMessage

// storedEntry reads probabilities loosely so string encoded values are caught
type storedEntry struct {
	ItemName    string          `json:"item_name"`
	Probability json.RawMessage `json:"probability"`
}

type finding struct {
	key     string
	index   int
	problem string
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Auditing monster drop tables...")

	iter := client.Scan(ctx, 0, "monster:*", 0).Iterator()

	var findings []finding
	badKeys := make(map[string][]storedEntry)
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		if key == "monster:index" {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var m storedMonster
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			findings = append(findings, finding{key: key, index: -1, problem: "corrupted JSON"})
			continue
		}

		var table []storedEntry
		if raw, ok := m["drop_table"]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &table); err != nil {
				findings = append(findings, finding{key: key, index: -1, problem: "drop_table is not a list"})
				continue
			}
		}

		var kept []storedEntry
		changed := false
		for i, entry := range table {
			p, problem := auditEntry(entry)
			if problem != "" {
				fmt.Printf("✗ %s entry %d: %s\n", key, i, problem)
				findings = append(findings, finding{key: key, index: i, problem: problem})
				changed = true
				continue
			}
			if strings.HasPrefix(string(entry.Probability), `"`) {
				fmt.Printf("✗ %s entry %d: probability stored as a string\n", key, i)
				findings = append(findings, finding{key: key, index: i, problem: "probability stored as a string"})
				changed = true
			}
			kept = append(kept, storedEntry{
				ItemName:    entry.ItemName,
				Probability: json.RawMessage(strconv.FormatFloat(p, 'g', -1, 64)),
			})
		}
		if changed {
			badKeys[key] = kept
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d monsters, found %d problems\n", checkedCount, len(findings))

	if len(findings) == 0 {
		fmt.Println("All drop tables are valid!")
		return
	}

	fmt.Println("\nProblems:")
	for _, f := range findings {
		if f.index < 0 {
			fmt.Printf("  - %s: %s\n", f.key, f.problem)
		} else {
			fmt.Printf("  - %s[%d]: %s\n", f.key, f.index, f.problem)
		}
	}

	if len(badKeys) == 0 {
		fmt.Println("\nNothing can be repaired automatically.")
		return
	}

	fmt.Printf("\nDo you want to REMOVE the invalid entries from %d drop tables? (yes/no): ", len(badKeys))
	var response string
	_, _ = fmt.Scanln(&response) // nolint:errcheck // empty input means no

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for key, kept := range badKeys {
		if err := rewriteDropTable(ctx, client, key, kept); err != nil {
			fmt.Printf("Failed to repair %s: %v\n", key, err)
		} else {
			fmt.Printf("Repaired %s\n", key)
		}
	}
	fmt.Println("\nRepair complete!")
}

// auditEntry parses the probability of entry and describes what is wrong with it.
// The problem is empty when the entry is valid.
func auditEntry(entry storedEntry) (float64, string) {
	name := strings.TrimSpace(entry.ItemName)
	switch {
	case name == "":
		return 0, "empty item name"
	case name == entities.NoDropItemName:
		return 0, fmt.Sprintf("item name %q is reserved", entities.NoDropItemName)
	}

	raw := strings.Trim(string(entry.Probability), `"`)
	if raw == "" || raw == "null" {
		return 0, "missing probability"
	}
	// ParseFloat accepts "NaN" and "Inf"
	p, err := strconv.ParseFloat(raw, 64)
	switch {
	case err != nil:
		return 0, fmt.Sprintf("probability %s is not a number", raw)
	case math.IsNaN(p):
		return 0, "probability is NaN"
	case math.IsInf(p, 0):
		return 0, "probability is infinite"
	case p < 0:
		return 0, fmt.Sprintf("negative probability %v", p)
	case p > drops.MaxProbability:
		return 0, fmt.Sprintf("probability %v exceeds %v", p, drops.MaxProbability)
	}
	return p, ""
}

func rewriteDropTable(ctx context.Context, client *redis.Client, key string, kept []storedEntry) error {
	data, err := client.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	var m storedMonster
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return err
	}

	if kept == nil {
		kept = []storedEntry{}
	}
	table, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	m["drop_table"] = table

	out, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, out, redis.KeepTTL).Err()
}
