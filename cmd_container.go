package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/app/garage"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/objectmanager"
)

// goinject demo: walk through singleton and fresh resolution.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show shared singletons versus freshly built objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		first, err := objectmanager.Singleton[*garage.Car](a.Objects, garage.CarClass)
		if err != nil {
			return err
		}
		second, err := objectmanager.Singleton[*garage.Car](a.Objects, garage.CarClass)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "getSingleton  %s\n", first.Describe())
		fmt.Fprintf(out, "getSingleton  %s  (same instance: %t)\n", second.Describe(), first == second)

		fresh, err := objectmanager.Create[*garage.Car](a.Objects, garage.CarClass)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "createObject  %s  (same instance: %t, same engine: %t)\n",
			fresh.Describe(), fresh == first, fresh.Engine == first.Engine)

		if _, err := a.Objects.GetSingleton(garage.VehicleClass); err != nil {
			fmt.Fprintf(out, "getSingleton  %s: %v\n", garage.VehicleClass, err)
		}

		fmt.Fprintf(out, "singletons    %s\n", strings.Join(a.Resolver.Loaded(), ", "))
		return nil
	},
}

// goinject classes: print the class table.
var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List registered classes and their constructor parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CLASS\tKIND\tPARAMETERS")
		fmt.Fprintln(w, "-----\t----\t----------")
		for _, name := range a.Classes.Names() {
			desc, err := a.Classes.Describe(name)
			if err != nil {
				return err
			}
			kind := "class"
			if !desc.Instantiable() {
				kind = "abstract"
			}

			params := make([]string, 0, len(desc.Parameters()))
			for _, p := range desc.Parameters() {
				switch {
				case p.ClassTyped():
					params = append(params, p.ClassID)
				case p.HasDefault:
					params = append(params, fmt.Sprintf("%s = %v", p.Type, p.Default))
				default:
					params = append(params, p.Type)
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, kind, strings.Join(params, ", "))
		}
		return w.Flush()
	},
}

var resolveNew bool

// goinject resolve <class>: resolve one class and dump it.
var resolveCmd = &cobra.Command{
	Use:   "resolve <class>",
	Short: "Resolve a class and print the instance as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}

		resolve := a.Objects.GetSingleton
		if resolveNew {
			resolve = a.Objects.CreateObject
		}
		instance, err := resolve(args[0])
		if err != nil {
			// The error handler has already reported the cause.
			return fmt.Errorf("resolve %s failed", container.Normalize(args[0]))
		}

		body, err := json.MarshalIndent(instance, "", "  ")
		if err != nil {
			body = []byte(fmt.Sprintf("%+v", instance))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%T\n%s\n", instance, body)
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveNew, "new", false, "build a fresh instance instead of the shared singleton")
}
