package storage

import (
	"bytes"
	"text/template"
)

const (
	nsA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

	xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	relsNS  = `http://schemas.openxmlformats.org/package/2006/relationships`
	relType = `http://schemas.openxmlformats.org/officeDocument/2006/relationships/`

	groupHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
)

var contentTypesTmpl = template.Must(template.New("ct").Funcs(funcs).Parse(xmlDecl +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Default Extension="png" ContentType="image/png"/>` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
	`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>` +
	`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>` +
	`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>` +
	`{{range seq .}}<Override PartName="/ppt/slides/slide{{.}}.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>{{end}}` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`</Types>`))

const rootRels = xmlDecl +
	`<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="` + relType + `officeDocument" Target="ppt/presentation.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="` + relType + `extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

var coreTmpl = template.Must(template.New("core").Funcs(funcs).Parse(xmlDecl +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
	`<dc:title>{{esc .Title}}</dc:title><dc:creator>{{esc .Author}}</dc:creator>` +
	`</cp:coreProperties>`))

var appTmpl = template.Must(template.New("app").Parse(xmlDecl +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" ` +
	`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
	`<Application>pii-deck</Application><Slides>{{.}}</Slides></Properties>`))

// Presentation relationships: rId1 master, rId2 theme, rId3-5 properties, slides from rId6.
var presentationTmpl = template.Must(template.New("pres").Funcs(funcs).Parse(xmlDecl +
	`<p:presentation ` + nsA + ` ` + nsR + ` ` + nsP + ` saveSubsetFonts="1">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`<p:sldIdLst>{{range seq .}}<p:sldId id="{{add . 255}}" r:id="rId{{add . 5}}"/>{{end}}</p:sldIdLst>` +
	`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/><p:notesSz cx="6858000" cy="9144000"/>` +
	`</p:presentation>`))

var presentationRelsTmpl = template.Must(template.New("presrels").Funcs(funcs).Parse(xmlDecl +
	`<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="` + relType + `slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relType + `theme" Target="theme/theme1.xml"/>` +
	`<Relationship Id="rId3" Type="` + relType + `presProps" Target="presProps.xml"/>` +
	`<Relationship Id="rId4" Type="` + relType + `viewProps" Target="viewProps.xml"/>` +
	`<Relationship Id="rId5" Type="` + relType + `tableStyles" Target="tableStyles.xml"/>` +
	`{{range seq .}}<Relationship Id="rId{{add . 5}}" Type="` + relType + `slide" Target="slides/slide{{.}}.xml"/>{{end}}` +
	`</Relationships>`))

const presPropsXML = xmlDecl + `<p:presentationPr ` + nsA + ` ` + nsR + ` ` + nsP + `/>`

const viewPropsXML = xmlDecl + `<p:viewPr ` + nsA + ` ` + nsR + ` ` + nsP + `/>`

const tableStylesXML = xmlDecl + `<a:tblStyleLst ` + nsA + ` def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

const slideMasterXML = xmlDecl +
	`<p:sldMaster ` + nsA + ` ` + nsR + ` ` + nsP + `>` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + groupHeader + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
	`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRels = xmlDecl +
	`<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="` + relType + `slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relType + `theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlDecl +
	`<p:sldLayout ` + nsA + ` ` + nsR + ` ` + nsP + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + groupHeader + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const slideLayoutRels = xmlDecl +
	`<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="` + relType + `slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

var themeTmpl = template.Must(template.New("theme").Funcs(funcs).Parse(xmlDecl +
	`<a:theme ` + nsA + ` name="Mocha"><a:themeElements>` +
	`<a:clrScheme name="Mocha">` +
	`<a:dk1><a:srgbClr val="{{.Background}}"/></a:dk1><a:lt1><a:srgbClr val="{{.Title}}"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="{{.Box}}"/></a:dk2><a:lt2><a:srgbClr val="{{.Body}}"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="{{.Accent}}"/></a:accent1><a:accent2><a:srgbClr val="89B4FA"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="F2CDCD"/></a:accent3><a:accent4><a:srgbClr val="FAB387"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="A6E3A1"/></a:accent5><a:accent6><a:srgbClr val="F38BA8"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="89DCEB"/></a:hlink><a:folHlink><a:srgbClr val="B4BEFE"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Mocha">` +
	`<a:majorFont><a:latin typeface="{{esc .Font}}"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="{{esc .Font}}"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Mocha">` +
	`<a:fillStyleLst>{{range seq 3}}<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>{{end}}</a:fillStyleLst>` +
	`<a:lnStyleLst>{{range seq 3}}<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>{{end}}</a:lnStyleLst>` +
	`<a:effectStyleLst>{{range seq 3}}<a:effectStyle><a:effectLst/></a:effectStyle>{{end}}</a:effectStyleLst>` +
	`<a:bgFillStyleLst>{{range seq 3}}<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>{{end}}</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`))

func themeXML(t Theme) string {
	var b bytes.Buffer
	if err := themeTmpl.Execute(&b, t); err != nil {
		panic("pptx: theme template: " + err.Error())
	}
	return b.String()
}

var slideTmpl = template.Must(template.New("slide").Funcs(funcs).Parse(xmlDecl +
	`{{define "xfrm"}}<a:xfrm><a:off x="{{.X}}" y="{{.Y}}"/><a:ext cx="{{.W}}" cy="{{.H}}"/></a:xfrm>{{end}}` +
	`<p:sld ` + nsA + ` ` + nsR + ` ` + nsP + `>` +
	`<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="{{.Background}}"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
	`<p:spTree>` + groupHeader +
	`{{range .Fills}}<p:sp><p:nvSpPr><p:cNvPr id="{{.ID}}" name="{{esc .Name}}"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr>{{template "xfrm" .}}<a:prstGeom prst="{{.Preset}}"><a:avLst/></a:prstGeom>` +
	`<a:solidFill><a:srgbClr val="{{.Fill}}"/></a:solidFill>` +
	`{{if .Line}}<a:ln><a:solidFill><a:srgbClr val="{{.Line}}"/></a:solidFill></a:ln>{{else}}<a:ln><a:noFill/></a:ln>{{end}}` +
	`<a:effectLst/></p:spPr>` +
	`<p:txBody><a:bodyPr rtlCol="0" anchor="ctr"/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>{{end}}` +
	`{{range .Texts}}{{$s := .}}<p:sp><p:nvSpPr><p:cNvPr id="{{.ID}}" name="{{esc .Name}}"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr>{{template "xfrm" .}}<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>` +
	`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:spAutoFit/></a:bodyPr><a:lstStyle/>` +
	`{{range .Lines}}<a:p>{{if .}}<a:r><a:rPr lang="en-US" sz="{{hundredths $s.Size}}"{{if $s.Bold}} b="1"{{end}} dirty="0">` +
	`<a:solidFill><a:srgbClr val="{{$s.Color}}"/></a:solidFill><a:latin typeface="{{esc $s.Font}}"/></a:rPr>` +
	`<a:t>{{esc .}}</a:t></a:r>{{else}}<a:endParaRPr lang="en-US" sz="{{hundredths $s.Size}}"/>{{end}}</a:p>{{else}}<a:p><a:endParaRPr lang="en-US"/></a:p>{{end}}` +
	`</p:txBody></p:sp>{{end}}` +
	`{{range .Pictures}}<p:pic><p:nvPicPr><p:cNvPr id="{{.ID}}" name="{{esc .Name}}"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>` +
	`<p:blipFill><a:blip r:embed="{{.RelID}}"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>` +
	`<p:spPr>{{template "xfrm" .}}<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>{{end}}` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`))

var slideRelsTmpl = template.Must(template.New("sliderels").Parse(xmlDecl +
	`<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="` + relType + `slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`{{if .Image}}<Relationship Id="rId2" Type="` + relType + `image" Target="../media/{{.Image}}"/>{{end}}` +
	`</Relationships>`))
