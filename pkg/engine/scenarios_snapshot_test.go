package engine

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEndToEndScenarios runs the six end-to-end console.log scenarios
// through the public facade and snapshots their stdout, the same way
// the front-end's own fixture suite snapshots whole-program output with
// snaps.MatchSnapshot rather than asserting an inline expected string.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name   string
		source string
	}{
		{
			name: "ClassInheritance",
			source: `
				class A { v: number; constructor(v: number) { this.v = v } }
				class B extends A { dbl(): number { return this.v * 2 } }
				console.log(new B(21).dbl())
			`,
		},
		{
			name: "ArrayPipeline",
			source: `console.log([1,2,3,4,5].filter(n => n%2==1).map(n => n*2).reduce((a,b)=>a+b,0))`,
		},
		{
			name: "NarrowingViaTypeof",
			source: `
				function f(x: string|number): number { if (typeof x === "string") return x.length; return x }
				console.log(f("hello"));
				console.log(f(7))
			`,
		},
		{
			name: "LabeledLoopControl",
			source: `
				let s=0;
				outer: for (let i=0;i<5;i++){ for(let j=0;j<5;j++){ if(j===3) continue outer; s+=1 } }
				console.log(s)
			`,
		},
		{
			name: "AsyncAwaitOrder",
			source: `
				async function g(){ return 1 }
				async function f(){ console.log("a"); const x = await g(); console.log(x); console.log("c") }
				f();
				console.log("b")
			`,
		},
		{
			name: "GetterSetterFrozen",
			source: `
				class T { private _x=0; get x(){return this._x} set x(v:number){this._x=v} }
				const t = new T();
				t.x=5;
				Object.freeze(t);
				t.x=9;
				console.log(t.x)
			`,
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := New(WithOutput(&buf))
			if err := e.Run(sc.source); err != nil {
				t.Fatalf("unexpected error running %s: %v", sc.name, err)
			}
			snaps.MatchSnapshot(t, buf.String())
		})
	}
}
