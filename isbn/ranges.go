package isbn

import (
	"fmt"
	"strings"
)

// rangeRule ordnet einem Sieben-Ziffern-Fenster die Länge des nächsten Segments zu.
type rangeRule struct {
	lo, hi string
	length int
}

// Registrierungsgruppen je EAN-Präfix, aus der ISBN International RangeMessage.
// "0-5" steht für 0000000-5999999 mit Segmentlänge 1, nicht genannte Fenster sind unvergeben.
var groupSpec = map[string]string{
	"978": "0-5,600-649,65-65,7-7,80-94,950-989,9900-9989,99900-99999",
	"979": "10-12,8-8",
}

// Verlagsbereiche je Gruppe im selben Format. Lücken sind unvergebene Bereiche.
var registrantSpec = map[string]string{
	// Englischsprachiger Raum
	"978-0": "00-19,200-227,2280-2289,229-368,3690-3699,370-638,6390-6397,6398000-6399999,640-644," +
		"6450000-6459999,646-647,6480000-6489999,649-654,6550-6559,656-699,7000-8499,85000-89999," +
		"900000-949999,9500000-9999999",
	"978-1": "00-09,100-399,4000-5499,55000-73199,7320000-7399999,74000-77499,7750000-7753999," +
		"77540-77639,7764000-7764999,77650-77699,7770000-7782999,77830-78999,7900-7999,80000-80049," +
		"80050-80499,80500-83799,8380000-8384999,83850-86719,8672-8675,86760-86979,869800-915999," +
		"9160000-9165059,916506-972999,9730-9877,987800-991149,9911500-9911999,991200-998989," +
		"9989900-9999999",
	// Französischsprachiger Raum
	"978-2": "00-19,200-349,35000-39999,400-486,487000-494999,495-495,4960-4966,49670-49699,497-527," +
		"5280-5299,530-699,7000-8399,84000-89999,900000-919799,91980-91980,919810-919942," +
		"9199430-9199689,919969-949999,9500000-9999999",
	// Deutschsprachiger Raum
	"978-3": "00-02,030-033,0340-0369,03700-03999,04-19,200-699,7000-8499,85000-89999,900000-949999," +
		"9500000-9539999,95400-96999,9700000-9849999,98500-99999",
	// Japan
	"978-4": "00-19,200-699,7000-8499,85000-89999,900000-949999,9500000-9999999",
	// Ehemalige Sowjetunion
	"978-5": "00000-00499,0050-0099,01-19,200-420,4210-4299,430-430,4310-4399,440-440,4410-4499," +
		"450-603,6040000-6049999,605-699,7000-8499,85000-89999,900000-909999,91000-91999,9200-9299," +
		"93000-94999,9500000-9500999,9501-9799,98000-98999,9900000-9909999,9910-9999",
	"978-600":  "00-09,100-499,5000-8999,90000-99999",
	"978-601":  "00-19,200-699,7000-7999,80000-84999,85-99",
	"978-602":  "00-06,0700-1399,14000-14999,1500-1699,17000-19999,200-499,50000-53999,5400-5999,60000-61999,620-749,7500-7999,80000-94999,95000-99999",
	"978-603":  "00-04,05-49,500-799,8000-8999,90000-99999",
	"978-604":  "0-2,300-399,40-46,470-497,4980-4999,50-89,900-979,9800-9999",
	"978-605":  "00-02,030-039,04-05,06000-06999,07-09,100-199,2000-2399,240-399,4000-5999,60000-74999,7500-7999,80000-89999,9000-9999",
	"978-606":  "000-099,10-49,500-799,8000-9099,910-919,92000-95999,9600-9749,975-999",
	"978-607":  "00-39,400-749,7500-9499,95000-99999",
	"978-608":  "0-0,10-19,200-449,4500-6499,65000-69999,7-9",
	"978-609":  "00-39,400-799,8000-9499,95000-99999",
	"978-612":  "00-29,300-399,4000-4499,45000-49999,50-99",
	"978-613":  "0-9",
	"978-614":  "00-39,400-799,8000-9499,95000-99999",
	"978-615":  "00-09,100-499,5000-7999,80000-89999",
	"978-616":  "00-19,200-699,7000-8999,90000-99999",
	"978-617":  "00-49,500-699,7000-8999,90000-99999",
	"978-618":  "00-19,200-499,5000-7999,80000-99999",
	"978-619":  "00-14,150-699,7000-8999,90000-99999",
	"978-620":  "0-9",
	"978-621":  "00-29,400-599,8000-8999,95000-99999",
	"978-622":  "00-10,200-459,4600-8749,87500-99999",
	"978-623":  "00-10,110-524,5250-8799,88000-99999",
	"978-624":  "00-04,200-249,5000-6699,93000-99999",
	"978-625":  "00-01,365-442,44300-44499,445-449,7000-7793,77940-77949,7795-8499,94000-99999",
	"978-626":  "00-04,300-499,7000-7999,95000-99999",
	"978-627":  "30-31,500-524,7500-7999,94500-94649",
	"978-628":  "00-09,500-549,7500-8499,95000-99999",
	"978-629":  "00-02,460-499,7500-7999,95000-99999",
	"978-630":  "300-349,6500-6849",
	"978-631":  "00-09,300-399,6500-7499,90000-99999",
	"978-65":   "00-01,250-299,300-302,5000-5129,5350-6149,80000-81824,83000-89999,900000-902449,980000-999999",
	// China
	"978-7":    "00-09,100-499,5000-7999,80000-89999,900000-999999",
	"978-80":   "00-19,200-529,53000-54999,550-689,69000-69999,7000-8499,85000-89999,900000-998999,99900-99999",
	"978-81":   "00-18,19000-19999,200-699,7000-8499,85000-89999,900000-999999",
	"978-82":   "00-19,200-689,690000-699999,7000-8999,90000-98999,990000-999999",
	"978-83":   "00-19,200-599,60000-69999,7000-8499,85000-89999,900000-999999",
	"978-84":   "00-13,140-149,15000-19999,200-699,7000-8499,85000-89999,9000-9199,920000-923999,92400-92999,930000-949999,95000-96999,9700-9999",
	"978-85":   "00-19,200-454,455000-455299,45530-45599,456-528,52900-53199,5320-5339,534-539,54000-54029,54030-54039,540400-540499,54050-54089,540900-540999,54100-54399,5440-5479,54800-54999,5500-5999,60000-69999,7000-8499,85000-89999,900000-924999,92500-94499,9450-9599,96-97,98000-99999",
	"978-86":   "00-29,300-599,6000-7999,80000-89999,900000-999999",
	"978-87":   "00-29,400-649,7000-7999,85000-94999,970000-999999",
	"978-88":   "00-19,200-311,31200-31499,315000-318499,31850-31999,320-326,327000-327999,32800-32999,330-599,6000-8499,85000-89999,900000-909999,910-929,9300-9399,940000-949999,95000-99999",
	"978-89":   "00-24,250-549,5500-8499,85000-94999,950000-969999,97000-98999,990-999",
	"978-90":   "00-19,200-499,5000-6999,70000-79999,800000-849999,8500-8999,90-90,910000-939999,94-94,950000-999999",
	"978-91":   "0-1,20-49,500-649,7000-8199,85000-94999,970000-999999",
	"978-92":   "0-5,60-79,800-899,9000-9499,95000-98999,990000-999999",
	"978-93":   "00-09,100-499,5000-7999,80000-95999,960000-999999",
	"978-94":   "000-599,6000-8999,90000-99999",
	"978-950":  "00-49,500-899,9000-9899,99000-99999",
	"978-951":  "0-1,20-54,550-889,8900-9499,95000-99999",
	"978-952":  "00-19,200-499,5000-5999,60-65,6600-6699,67000-69999,7000-7999,80-94,9500-9899,99000-99999",
	"978-953":  "0-0,10-14,150-479,48000-49999,500-500,50100-50999,51-54,55000-59999,6000-9499,95000-99999",
	"978-954":  "00-28,2900-2999,300-799,8000-8999,90000-92999,9300-9999",
	"978-955":  "0000-1999,20-33,3400-3549,35500-35999,3600-3799,38000-38999,3900-4099,41000-44999,4500-4999,50000-54999,550-710,71100-71499,7150-9499,95000-99999",
	"978-956":  "00-08,09000-09999,10-19,200-599,6000-6999,7000-9999",
	"978-957":  "00-02,0300-0499,05-19,2000-2099,21-27,28000-30999,31-43,440-819,8200-9699,97000-99999",
	"978-958":  "00-49,500-509,5100-5199,52000-53999,5400-5599,56000-59999,600-799,8000-9499,95000-99999",
	"978-959":  "00-19,200-699,7000-8499,85000-99999",
	"978-960":  "00-19,200-659,6600-6899,690-699,7000-8499,85000-92999,93-93,9400-9799,98000-99999",
	"978-961":  "00-19,200-599,6000-8999,90000-97999",
	"978-962":  "00-19,200-699,7000-8499,85000-86999,8700-8999,900-999",
	"978-963":  "00-19,200-699,7000-8499,85000-89999,9000-9999",
	"978-964":  "00-14,150-249,2500-2999,300-549,5500-8999,90000-96999,970-989,9900-9999",
	"978-965":  "00-19,200-599,7000-7999,90000-99999",
	"978-966":  "00-12,130-139,14-14,1500-1699,170-199,2000-2789,279-289,2900-2999,300-699,7000-8999,90000-90999,910-949,95000-97999,980-999",
	"978-967":  "00-00,0100-0999,10000-19999,2000-2499,300-499,5000-5999,60-89,900-989,9900-9989,99900-99999",
	"978-968":  "01-39,400-499,5000-7999,800-899,9000-9999",
	"978-969":  "0-1,20-22,23000-23999,24-39,400-749,7500-9999",
	"978-970":  "01-59,600-899,9000-9099,91000-96999,9700-9999",
	"978-971":  "000-015,0160-0199,02-02,0300-0599,06-49,500-849,8500-9099,91000-95999,9600-9699,97-98,9900-9999",
	"978-972":  "0-1,20-54,550-799,8000-9499,95000-99999",
	"978-973":  "0-0,100-169,1700-1999,20-54,550-759,7600-8499,85000-88999,8900-9499,95000-99999",
	"978-974":  "00-19,200-699,7000-8499,85000-89999,90000-94999,9500-9999",
	"978-975":  "00000-01999,02-24,250-599,6000-9199,92000-98999,990-999",
	"978-976":  "0-3,40-59,600-799,8000-9499,95000-99999",
	"978-977":  "00-19,200-499,5000-6999,700-849,85000-89999,90-98,990-999",
	"978-978":  "000-199,2000-2999,30000-79999,8000-8999,900-999",
	"978-979":  "000-099,1000-1499,15000-19999,20-29,3000-3999,400-799,8000-9499,95000-99999",
	"978-980":  "00-19,200-599,6000-9999",
	"978-981":  "00-16,17000-17999,18-19,200-299,3000-3099,310-399,4000-9999",
	"978-982":  "00-09,100-699,70-89,9000-9799,98000-99999",
	"978-983":  "00-01,020-199,2000-3999,40000-44999,45-49,50-79,800-899,9000-9899,99000-99999",
	"978-984":  "00-39,400-799,8000-8999,90000-99999",
	"978-985":  "00-39,400-599,6000-8799,880-899,90000-99999",
	"978-986":  "00-05,06000-06999,0700-0799,08-11,120-539,5400-7999,80000-99999",
	"978-987":  "00-09,1000-1999,20000-29999,30-35,3600-4199,42-43,4400-4499,45000-48999,4900-4999,500-829,8300-8499,85-88,8900-9499,95000-99999",
	"978-988":  "00-11,12000-19999,200-739,74000-76999,77000-79999,8000-9699,97000-99999",
	"978-989":  "0-1,20-34,35000-36999,37-52,53000-54999,550-799,8000-9499,95000-99999",
	"978-9927": "00-09,100-399,4000-4999",
	"978-9929": "0-3,40-54,550-799,8000-9999",
	"978-9930": "00-49,500-939,9400-9999",
	"978-9933": "0-0,10-39,400-899,9000-9999",
	"978-9934": "0-0,10-49,500-799,8000-9999",
	"978-9935": "0-0,10-39,400-899,9000-9999",
	"978-9937": "0-2,30-49,500-799,8000-9999",
	"978-9938": "00-79,800-949,9500-9999",
	"978-9939": "0-4,50-79,800-899,9000-9999",
	"978-9940": "0-1,20-49,500-899,9000-9999",
	"978-9941": "0-0,10-39,400-899,9000-9999",
	"978-9942": "00-74,750-849,8500-8999,900-984,9850-9999",
	"978-9943": "00-29,300-399,4000-9749,975-999",
	"978-9944": "0000-0999,100-499,5000-5999,60-69,700-799,80-89,900-999",
	"978-9949": "0-0,10-39,400-749,75-89,9000-9999",
	"978-9950": "00-29,300-849,8500-9999",
	"978-9953": "0-0,10-39,400-599,60-89,9000-9999",
	"978-9955": "00-39,400-929,9300-9999",
	"978-9957": "00-39,400-699,70-84,8500-8799,88-99",
	"978-9958": "00-01,020-029,0300-0399,040-089,0900-0999,10-18,1900-1999,20-49,500-899,9000-9999",
	"978-9959": "0-1,20-79,800-949,9500-9699,970-979,98-99",
	"978-9960": "00-59,600-899,9000-9999",
	"978-9961": "0-2,30-69,700-949,9500-9999",
	"978-9963": "0-1,2000-2499,250-279,2800-2999,30-54,550-734,7350-7499,7500-9999",
	"978-9964": "0-6,70-94,950-999",
	"978-9965": "00-39,400-899,9000-9999",
	"978-9966": "000-139,14-14,1500-1999,20-69,7000-7499,750-820,8210-8249,825-825,8260-8289,829-959,9600-9999",
	"978-9967": "00-39,400-899,9000-9999",
	"978-9968": "00-49,500-939,9400-9999",
	"978-9970": "00-39,400-899,9000-9999",
	"978-9971": "0-5,60-89,900-989,9900-9999",
	"978-9972": "00-09,1-1,200-249,2500-2999,30-59,600-899,9000-9999",
	"978-9973": "00-05,060-089,0900-0999,10-69,700-969,9700-9999",
	"978-9974": "0-2,30-54,550-749,7500-9499,95-99",
	"978-9975": "0-0,100-299,3000-3999,4000-4499,45-89,900-949,9500-9999",
	"978-9976": "0-4,5000-5999,60-89,900-989,9900-9999",
	"978-9977": "00-89,900-989,9900-9999",
	"978-9978": "00-29,300-399,40-94,950-989,9900-9999",
	"978-9979": "0-4,50-64,650-659,66-75,760-899,9000-9999",
	"978-9980": "0-3,40-89,900-989,9900-9999",
	"978-9981": "00-09,100-159,1600-1999,20-79,800-949,9500-9999",
	"978-9982": "00-79,800-989,9900-9999",
	"978-9983": "80-94,950-989,9900-9999",
	"978-9984": "00-49,500-899,9000-9999",
	"978-9985": "0-4,50-79,800-899,9000-9999",
	"978-9986": "00-39,400-899,9000-9399,940-969,97-99",
	"978-9987": "00-39,400-879,8800-9999",
	"978-9988": "0-3,40-54,550-749,7500-9999",
	"978-9989": "0-0,100-199,2000-2999,30-59,600-949,9500-9999",
	// Frankreich, Korea, Italien, USA
	"979-10":   "00-19,200-699,7000-8999,90000-97599,976000-999999",
	"979-11":   "00-24,250-549,5500-8499,85000-94999,950000-999999",
	"979-12":   "200-299,5450-5999,80000-84999,985000-999999",
	"979-8":    "200-229,230-239,2400-2499,250-253,2540-2544,255-297,2980-2999,3000-7999,8000-8499,8500-8849,88500-89999,9850000-9899999",
}

var (
	groupRanges      = mustParseAll(groupSpec)
	registrantRanges = mustParseAll(registrantSpec)
)

func mustParseAll(spec map[string]string) map[string][]rangeRule {
	out := make(map[string][]rangeRule, len(spec))
	for key, ranges := range spec {
		rules, err := parseRanges(ranges)
		if err != nil {
			panic(fmt.Sprintf("isbn: range table %s: %v", key, err))
		}
		out[key] = rules
	}
	return out
}

// parseRanges liest "00-19,200-699" in Fenster-Regeln. Die Segmentlänge ist die Stellenzahl der Grenzen.
func parseRanges(s string) ([]rangeRule, error) {
	var rules []rangeRule
	for _, part := range strings.Split(s, ",") {
		lo, hi, ok := strings.Cut(part, "-")
		if !ok || len(lo) != len(hi) || len(lo) == 0 || len(lo) > 7 || lo > hi {
			return nil, fmt.Errorf("malformed range %q", part)
		}
		rules = append(rules, rangeRule{
			lo:     lo + strings.Repeat("0", 7-len(lo)),
			hi:     hi + strings.Repeat("9", 7-len(hi)),
			length: len(lo),
		})
	}
	return rules, nil
}
