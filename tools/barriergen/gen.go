package main

import (
	"strings"

	"github.com/dave/jennifer/jen"
)

// family is one barrier family: an ABI suffix and the Go type it
// instruments.
type family struct {
	Ext          string
	Type         string
	ForceAligned bool
}

// families lists every generated barrier family in ABI order.
var families = []family{
	{Ext: "U1", Type: "uint8"},
	{Ext: "U2", Type: "uint16"},
	{Ext: "U4", Type: "uint32"},
	{Ext: "U8", Type: "uint64"},
	{Ext: "F", Type: "float32"},
	{Ext: "D", Type: "float64"},
	{Ext: "CF", Type: "complex64"},
	{Ext: "CD", Type: "complex128"},
	{Ext: "M64", Type: "M64"},
	{Ext: "M128", Type: "M128"},
	{Ext: "M256", Type: "M256"},
	{Ext: "W", Type: "uintptr", ForceAligned: true},
}

// intent is one access-intent entry point. Doc may refer to the family
// as {ext} and {type}.
type intent struct {
	Prefix string
	Doc    string
}

var readIntents = []intent{
	{"Read", "reads the {type} at addr."},
	{"ReadAfterRead", "is Read{ext} for a location tx has already read."},
	{"ReadAfterWrite", "is Read{ext} for a location tx has already written."},
	{"ReadForWrite", "is Read{ext} for a location tx is about to write."},
}

var writeIntents = []intent{
	{"Write", "stores val at addr."},
	{"WriteAfterRead", "is Write{ext} for a location tx has already read."},
	{"WriteAfterWrite", "is Write{ext} for a location tx has already written."},
}

// Generate renders the barrier surface for package pkg.
func Generate(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by barriergen. DO NOT EDIT.")

	for _, fam := range families {
		bv := "barrier" + fam.Ext
		doc := strings.NewReplacer("{ext}", fam.Ext, "{type}", fam.Type)
		typ := jen.Id(fam.Type)

		f.Var().Id(bv).Op("=").Id("newBarrier").Types(typ.Clone()).Call(jen.Lit(fam.ForceAligned))

		for _, in := range readIntents {
			name := in.Prefix + fam.Ext
			f.Comment(name + " " + doc.Replace(in.Doc)).Line().
				Func().Id(name).
				Params(jen.Id("tx").Id("Transaction"), jen.Id("addr").Op("*").Add(typ.Clone())).
				Add(typ.Clone()).
				Block(jen.Return(jen.Id(bv).Dot("read").Call(jen.Id("tx"), jen.Id("addr"))))
		}

		for _, in := range writeIntents {
			name := in.Prefix + fam.Ext
			f.Comment(name + " " + doc.Replace(in.Doc)).Line().
				Func().Id(name).
				Params(jen.Id("tx").Id("Transaction"), jen.Id("addr").Op("*").Add(typ.Clone()), jen.Id("val").Add(typ.Clone())).
				Block(jen.Id(bv).Dot("write").Call(jen.Id("tx"), jen.Id("addr"), jen.Id("val")))
		}
	}
	return f
}
