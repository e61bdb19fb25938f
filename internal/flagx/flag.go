// Package flagx lets independent loaders parse only the flags they own from
// a shared argument list.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in valueFlags and boolFlags, in order.
//
// A value flag keeps the following argument when that argument does not start
// with '-'. A bool flag never consumes the next argument. The "-name=value"
// form is kept as a single argument for either kind.
//
// The result is never nil.
func FilterArgs(args []string, valueFlags []string, boolFlags ...string) []string {
	withValue := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		withValue[f] = struct{}{}
	}
	bare := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		bare[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			_, v := withValue[name]
			_, b := bare[name]
			if v || b {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := bare[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := withValue[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path given with -c or -config in
// args (usually os.Args[1:]), or "" when neither is present. The last
// occurrence wins.
func JsonConfigFlags(args []string) string {
	var config string

	filtered := FilterArgs(args, []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(filtered)

	return config
}
