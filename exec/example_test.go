package exec_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/codecompare/exec"
	"github.com/jonwraymond/codecompare/render"
	"github.com/jonwraymond/codecompare/source"
)

func ExampleExec_Compare() {
	x, err := exec.New(exec.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	standard := source.NewBuffer("standard")
	standard.SetText("# reference solution\nprint(1)\nprint(2)\n")
	candidate := source.NewBuffer("candidate")
	candidate.SetText("print(1)\nprint(3)\n")

	for _, line := range render.Diff(x.Compare(standard, candidate)) {
		fmt.Println(line)
	}
	// Output:
	//   1|  1| print(1)
	//   2|   | print(2)
	//    |  2| print(3)
}

func ExampleExec_Execute() {
	x, err := exec.New(exec.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Empty code never starts a process.
	res := x.Execute(context.Background(), "")
	fmt.Printf("%s %q\n", res.Status, res.Output)
	// Output:
	// success ""
}
