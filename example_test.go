package colobj_test

import (
	"context"
	"fmt"
	"log"

	"github.com/colobj/colobj"
)

type reading struct {
	Sensor uint32
	Values []float64
}

func Example() {
	ctx := context.Background()

	model := colobj.NewModel()
	name, err := model.RegisterStruct(reading{})
	if err != nil {
		log.Fatal(err)
	}
	if _, err := model.MakeField("reading", name); err != nil {
		log.Fatal(err)
	}

	w, err := colobj.NewWriter(model)
	if err != nil {
		log.Fatal(err)
	}

	e := model.NewEntry()
	defer e.Destroy()
	for i := 0; i < 3; i++ {
		err := e.Set("reading", map[string]any{
			"Sensor": uint32(i),
			"Values": []any{float64(i), float64(i) * 2},
		})
		if err != nil {
			log.Fatal(err)
		}
		if _, err := w.Fill(ctx, e); err != nil {
			log.Fatal(err)
		}
	}
	store, err := w.Close(ctx)
	if err != nil {
		log.Fatal(err)
	}

	r, err := colobj.NewReader(model, store)
	if err != nil {
		log.Fatal(err)
	}
	if err := r.Read(2, e); err != nil {
		log.Fatal(err)
	}
	got, err := e.Get("reading")
	if err != nil {
		log.Fatal(err)
	}
	m := got.(map[string]any)
	fmt.Println(m["Sensor"], m["Values"])
	// Output: 2 [2 4]
}
