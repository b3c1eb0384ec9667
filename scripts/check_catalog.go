// 手动校验挑战目录文件
//
// 修改 catalog.path 指向的 YAML 后，上线前先用此脚本检查格式和难度取值。
//
// 用法: go run scripts/check_catalog.go [catalog.yaml]

package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"skillstreak_backend/internal/config"
	"skillstreak_backend/internal/service"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	} else {
		cfg, err := config.LoadConfig("configs")
		if err != nil {
			log.Fatalf("无法读取配置文件: %v", err)
		}
		path = cfg.Catalog.Path
	}
	if path == "" {
		log.Fatal("未配置 catalog.path，且未指定目录文件")
	}

	catalog, err := service.LoadCatalogFile(path)
	if err != nil {
		log.Fatalf("目录文件无效: %v", err)
	}

	rules := service.DefaultRules()
	perSkill := map[string]int{}
	pointsPerSkill := map[string]int{}
	for _, e := range catalog.Entries() {
		perSkill[e.Skill]++
		pointsPerSkill[e.Skill] += rules.PointsFor(e.Difficulty)
	}

	skills := make([]string, 0, len(perSkill))
	for s := range perSkill {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	fmt.Printf("%s: %d 条挑战\n", path, catalog.Len())
	for _, s := range skills {
		fmt.Printf("  %-28s %2d 条, 默认积分合计 %d\n", s, perSkill[s], pointsPerSkill[s])
	}
	if catalog.Len() == 0 {
		fmt.Println("警告: 目录为空，每日挑战接口将返回 500")
		os.Exit(1)
	}
}
