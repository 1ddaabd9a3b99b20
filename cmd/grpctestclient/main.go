package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	rsgrpc "regexsolver/grpc"

	"github.com/golang/protobuf/jsonpb"
	structpb "github.com/golang/protobuf/ptypes/struct"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// A command line utility to send test requests to the regex solver
func main() {
	// Parse command line args
	grpcHostArg := flag.String("grpchost", "localhost:37291", "regex solver gRPC host to send the request to.")
	patternArg := flag.String("pattern", "a(b)?", "pattern body. Cannot be used with -request.")
	delimiterArg := flag.String("delimiter", "/", "pattern delimiter. Cannot be used with -request.")
	flagsArg := flag.String("flags", "g", "pattern modifiers, with g for all matches. Cannot be used with -request.")
	textArg := flag.String("text", "abab a", "text to match. Cannot be used with -request.")
	flavorArg := flag.String("flavor", "", "engine flavor, pcre or re2. Cannot be used with -request.")
	requestFilenameArg := flag.String("request", "./myrequest.json", "Path to file containing a full JSON solve request.")
	flag.Parse()
	wasFlagSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { wasFlagSet[f.Name] = true })

	var data []byte
	if wasFlagSet["request"] {
		for _, n := range []string{"pattern", "delimiter", "flags", "text", "flavor"} {
			if wasFlagSet[n] {
				log.Fatalf("%v cannot be provided together with request\n", n)
			}
		}

		var err error
		data, err = os.ReadFile(*requestFilenameArg)
		if err != nil {
			fmt.Printf("%v\n", err)
			return
		}
	} else {
		data, _ = json.Marshal(map[string]string{
			"pattern":   *patternArg,
			"delimiter": *delimiterArg,
			"flags":     *flagsArg,
			"text":      *textArg,
			"flavor":    *flavorArg,
		})
	}

	in := &structpb.Struct{}
	if err := jsonpb.UnmarshalString(string(data), in); err != nil {
		fmt.Printf("%v\n", err)
		return
	}

	// Establish gRPC connection
	conn, err := grpc.NewClient(*grpcHostArg, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	defer conn.Close()
	client := rsgrpc.NewSolverClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out, err := client.Solve(ctx, in)
	if err != nil {
		log.Fatalf("Solve(_) = _, %v", err)
	}

	m := jsonpb.Marshaler{Indent: "  "}
	s, err := m.MarshalToString(out)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(s)
}
