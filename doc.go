/*
Package shadepbr translates host shading networks (Maya and Arnold shader nodes) into
PBR material records and packs texture channels into the layouts a runtime renderer
expects.

The host scene is consumed through the read-only Graph interface. MemoryGraph is an
in-memory implementation that can also be read from and written to a text graph
description.

Graph description example:

	class file1 : file
	{
	    fileTextureName = "textures/base.png";
	    offsetU = 0; offsetV = 0; repeatU = 1; repeatV = 1; rotateFrame = 0;
	    mirrorU = false; mirrorV = false; wrapU = true; wrapV = true;
	};
	class surface1 : aiStandardSurface
	{
	    base = 1;
	    baseColor[] = {0.8, 0.8, 0.8};
	    baseColor = file1;
	    ...
	};

Reader example:

	g, err := shadepbr.DecodeGraphFile("scene.graph", nil)
	if err != nil {
		// handle error
	}

Export example:

	var log shadepbr.IssueLog
	exp := shadepbr.NewExporter(g, nil, &shadepbr.ExportOptions{OutputPath: "out"}, &log)
	ref, _ := g.Lookup("surface1")
	if err := exp.ExportMaterial(ref); err != nil {
		// the material was skipped; other materials can still be exported
	}

Multi-material example:

	mm, err := exp.ExportMultiMaterial([]shadepbr.NodeRef{refA, refB})
	if err != nil {
		// one or more members failed
	}
	_ = mm.ID // identical for any member order

Channel pack example:

	img, err := shadepbr.Pack(shadepbr.PackRequest{
		Sources:     [4]string{"rough.png", "metal.png"},
		Defaults:    [4]float64{1, 0.5, 0, 1},
		Mapping:     [4]shadepbr.ChannelSource{{Slot: 2}, {Slot: 0, Channel: 1}, {Slot: 1, Channel: 1}, {Slot: 3}},
		Destination: "rough_metal_ORM.jpg",
		Quality:     90,
	})

Scene writer example:

	out, err := shadepbr.FormatScene(exp.Scene(), nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := shadepbr.ValidateScene(exp.Scene(), nil)
	if len(issues) != 0 {
		// handle validation issues
	}
*/
package shadepbr
