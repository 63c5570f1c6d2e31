// Command ensnorm normalizes ENS names from the command line.
//
// Names come from the arguments, or from stdin one per line when no
// arguments are given. Diagnostics go to stderr and flip the exit status,
// except with -op process, which reports them inside its JSON output
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ensnorm/internal/core/ensip"
	"ensnorm/internal/platform/logger"
)

func main() {
	var (
		op      = flag.String("op", "normalize", "operation: normalize|beautify|cure|tokenize|normalizations|process")
		asJSON  = flag.Bool("json", false, "emit JSON instead of plain text")
		verbose = flag.Bool("v", false, "log engine details")
	)
	flag.Parse()

	l := logger.Get()
	eng, err := ensip.New()
	if err != nil {
		l.Panic().Err(err).Msg("spec tables failed to compile")
	}

	names := flag.Args()
	if len(names) == 0 {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			names = append(names, sc.Text())
		}
		if err := sc.Err(); err != nil {
			l.Panic().Err(err).Msg("reading stdin")
		}
	}

	failed := false
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for _, name := range names {
		if *verbose {
			l.Debug().Str("name", name).Str("op", *op).Msg("processing")
		}
		if ok := runOne(eng, out, name, *op, *asJSON); !ok {
			failed = true
		}
	}
	out.Flush()
	if failed {
		os.Exit(1)
	}
}

func runOne(eng *ensip.Engine, out *bufio.Writer, name, op string, asJSON bool) bool {
	switch op {
	case "normalize":
		res, err := eng.Normalize(name)
		return emit(out, asJSON, res, err)
	case "beautify":
		res, err := eng.Beautify(name)
		return emit(out, asJSON, res, err)
	case "cure":
		cured, cures, err := eng.CureDetailed(name)
		if err != nil {
			return emit(out, asJSON, "", err)
		}
		if asJSON {
			return emitJSON(out, map[string]any{"cured": cured, "cures": len(cures)})
		}
		fmt.Fprintln(out, cured)
		return true
	case "tokenize":
		tokens := eng.Tokenize(name)
		if asJSON {
			return emitJSON(out, tokens)
		}
		for _, tok := range tokens {
			fmt.Fprintf(out, "%s\t%q\n", tok.Kind, string(tok.CPs))
		}
		return true
	case "normalizations":
		return emitJSON(out, eng.Normalizations(name))
	case "process":
		res := eng.Process(name, ensip.FlagAll)
		view := map[string]any{"input": name}
		if res.Error != nil {
			view["error"] = res.Error.Error()
		} else {
			view["normalized"] = res.Normalized
			view["beautified"] = res.Beautified
		}
		if res.CureError == nil {
			view["cured"] = res.Cured
		}
		return emitJSON(out, view)
	default:
		fmt.Fprintf(os.Stderr, "unknown op %q\n", op)
		return false
	}
}

func emit(out *bufio.Writer, asJSON bool, result string, err error) bool {
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return false
	}
	if asJSON {
		return emitJSON(out, map[string]string{"result": result})
	}
	fmt.Fprintln(out, result)
	return true
}

func emitJSON(out *bufio.Writer, v any) bool {
	enc := json.NewEncoder(out)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return false
	}
	return true
}
