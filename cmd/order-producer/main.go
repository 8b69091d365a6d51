package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// instruction is the JSON payload the matching engine consumes.
type instruction struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	Side     string  `json:"side"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// generateInstructions creates a stream of plausible order instructions
// around a base price: mostly limits, some markets, a few stops and cancels.
func generateInstructions(count int, basePrice, priceSpread float64) []instruction {
	instructions := make([]instruction, count)

	for i := 0; i < count; i++ {
		id := int64(i + 1)

		orderType := "limit"
		switch r := rand.Float64(); {
		case r < 0.2:
			orderType = "market"
		case r < 0.3:
			orderType = "stop"
		case r < 0.35 && i > 10:
			orderType = "cancel"
		}

		if orderType == "cancel" {
			// target a random earlier order; misses are benign no-ops
			instructions[i] = instruction{
				ID:   int64(rand.Intn(i) + 1),
				Type: orderType,
				Side: "na",
			}
			continue
		}

		side := "sell"
		isBid := rand.Float64() < 0.5
		if isBid {
			side = "buy"
		}

		quantity := int64(rand.Intn(100) + 1)

		var price float64
		switch orderType {
		case "market":
			price = 0
		case "stop":
			if isBid {
				price = basePrice + rand.Float64()*priceSpread
			} else {
				price = basePrice - rand.Float64()*priceSpread
			}
		default:
			if isBid {
				price = basePrice - rand.Float64()*priceSpread*0.8
			} else {
				price = basePrice + rand.Float64()*priceSpread*0.8
			}
		}
		price = float64(int(price*10)) / 10
		if price < 0 {
			price = basePrice
		}

		instructions[i] = instruction{
			ID:       id,
			Type:     orderType,
			Side:     side,
			Price:    price,
			Quantity: quantity,
		}
	}

	return instructions
}

// loadInstructions reads "id,Type,Side,price,quantity" CSV lines, the format
// the engine's file feed also accepts.
func loadInstructions(path string) ([]instruction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var instructions []instruction
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			log.Printf("Skipping malformed line: %q", line)
			continue
		}

		id, errID := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		price, errPrice := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		quantity, errQty := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
		if errID != nil || errPrice != nil || errQty != nil {
			log.Printf("Skipping malformed line: %q", line)
			continue
		}

		instructions = append(instructions, instruction{
			ID:       id,
			Type:     strings.ToLower(strings.TrimSpace(fields[1])),
			Side:     strings.ToLower(strings.TrimSpace(fields[2])),
			Price:    price,
			Quantity: quantity,
		})
	}
	return instructions, scanner.Err()
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		file        = flag.String("file", "", "CSV instruction file (optional, generates instructions if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending instructions")
		count       = flag.Int("count", 1000, "Number of instructions to generate")
		basePrice   = flag.Float64("base-price", 100.0, "Base price for generated orders")
		priceSpread = flag.Float64("price-spread", 10.0, "Price spread range")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var instructions []instruction
	if *file != "" {
		loaded, err := loadInstructions(*file)
		if err != nil {
			log.Fatalf("Failed to load instructions from %s: %v", *file, err)
		}
		instructions = loaded
		log.Printf("Loaded %d instructions from file: %s", len(instructions), *file)
	} else {
		instructions = generateInstructions(*count, *basePrice, *priceSpread)
		log.Printf("Generated %d instructions", len(instructions))
	}

	log.Printf("Sending instructions to broker: %s, topic: %s", *brokers, *topic)

	for i, inst := range instructions {
		payload, err := json.Marshal(inst)
		if err != nil {
			log.Printf("Failed to marshal instruction %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Value: payload,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send instruction %d (id=%d): %v", i+1, inst.ID, err)
			continue
		}

		if (i+1)%100 == 0 || i == len(instructions)-1 {
			log.Printf("Sent instruction %d/%d: id=%d %s %s qty=%d @ %.1f",
				i+1, len(instructions), inst.ID, inst.Type, inst.Side, inst.Quantity, inst.Price)
		}

		if i < len(instructions)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Successfully sent all %d instructions", len(instructions))
}
